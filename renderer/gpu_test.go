package renderer

import "testing"

func TestResidency_SkipsOnlyMarkedBuffer(t *testing.T) {
	buf := make([]float32, 12)
	other := make([]float32, 12)

	tests := []struct {
		name  string
		mark  []float32
		take  []float32
		takes int
		want  []bool
	}{
		{"same buffer", buf, buf, 2, []bool{true, false}},
		{"other buffer", buf, other, 1, []bool{false}},
		{"shorter view", buf, buf[:6], 1, []bool{false}},
		{"nothing marked", nil, buf, 1, []bool{false}},
		{"empty buffer", buf[:0], buf[:0], 1, []bool{false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r residency
			if tt.mark != nil {
				r.mark(tt.mark)
			}
			for i := 0; i < tt.takes; i++ {
				if got := r.take(tt.take); got != tt.want[i] {
					t.Errorf("take #%d = %v, want %v", i+1, got, tt.want[i])
				}
			}
		})
	}
}

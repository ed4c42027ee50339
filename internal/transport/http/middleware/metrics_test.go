package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			"UUID replacement",
			"/api/shares/550e8400-e29b-41d4-a716-446655440000/views",
			"/api/shares/:id/views",
		},
		{
			"ObjectID replacement",
			"/api/shares/507f1f77bcf86cd799439011/views",
			"/api/shares/:id/views",
		},
		{
			"numeric ID replacement",
			"/api/shares/12345",
			"/api/shares/:id",
		},
		{
			"no change for share ID path",
			"/shared/abcXYZ",
			"/shared/abcXYZ",
		},
		{
			"multiple UUIDs",
			"/users/550e8400-e29b-41d4-a716-446655440000/shares/660e8400-e29b-41d4-a716-446655440001",
			"/users/:id/shares/:id",
		},
		{
			"root path unchanged",
			"/",
			"/",
		},
		{
			"health endpoint unchanged",
			"/health",
			"/health",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizePath(tt.path)
			if got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

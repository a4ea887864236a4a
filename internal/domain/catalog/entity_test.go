package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/ricecart/internal/domain/catalog"
)

func TestBenefits(t *testing.T) {
	tests := []struct {
		name    string
		benefit string
		want    []string
	}{
		{
			name:    "comma separated",
			benefit: "Rich in fiber,Good for diabetics,Gluten free",
			want:    []string{"Rich in fiber", "Good for diabetics", "Gluten free"},
		},
		{
			name:    "trims whitespace",
			benefit: " Rich in fiber , Good for diabetics ",
			want:    []string{"Rich in fiber", "Good for diabetics"},
		},
		{
			name:    "drops empty entries",
			benefit: "Rich in fiber,,Gluten free,",
			want:    []string{"Rich in fiber", "Gluten free"},
		},
		{
			name:    "empty field",
			benefit: "",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &catalog.Product{Benefit: tt.benefit}
			assert.Equal(t, tt.want, p.Benefits())
		})
	}
}

package core

import (
	"errors"
	"math"
	"testing"
)

func validInput() *StallInput {
	return &StallInput{
		Name:        "Ah Hock",
		Cuisine:     "Hokkien",
		Category:    "Noodles",
		Description: "Prawn noodles since 1968",
		ImageURL:    "https://example.com/ahhock.jpg",
		Menu: []MenuCategory{
			{
				ID:   "temp-cat-1",
				Name: "Mains",
				Items: []MenuItem{
					{ID: "temp-1", Name: "Hokkien Mee", Description: "Wok fried", Price: 5.5, ImageURL: "https://example.com/mee.jpg"},
				},
			},
		},
	}
}

func TestValidateStallInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StallInput)
		wantErr error
	}{
		{"valid input", func(*StallInput) {}, nil},
		{"empty name", func(in *StallInput) { in.Name = "  " }, ErrInvalidStall},
		{"empty cuisine", func(in *StallInput) { in.Cuisine = "" }, ErrEmptyField},
		{"relative image url", func(in *StallInput) { in.ImageURL = "/img.jpg" }, ErrInvalidURL},
		{"empty category name", func(in *StallInput) { in.Menu[0].Name = "" }, ErrInvalidMenuCategory},
		{"zero price", func(in *StallInput) { in.Menu[0].Items[0].Price = 0 }, ErrInvalidPrice},
		{"bad item url", func(in *StallInput) { in.Menu[0].Items[0].ImageURL = "nope" }, ErrInvalidMenuItem},
		{"empty item description", func(in *StallInput) { in.Menu[0].Items[0].Description = "" }, ErrInvalidMenuItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			err := ValidateStallInput(in)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("expected error to wrap ErrValidationFailed, got %v", err)
			}
		})
	}
}

func TestValidateStallInput_Nil(t *testing.T) {
	if err := ValidateStallInput(nil); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
}

func TestValidateRatingValue(t *testing.T) {
	for _, v := range []float64{1, 2.5, 5} {
		if err := ValidateRatingValue(v); err != nil {
			t.Errorf("ValidateRatingValue(%v) = %v, want nil", v, err)
		}
	}
	for _, v := range []float64{0, 0.99, 5.01, -3, math.NaN()} {
		if err := ValidateRatingValue(v); !errors.Is(err, ErrRatingOutOfRange) {
			t.Errorf("ValidateRatingValue(%v) = %v, want ErrRatingOutOfRange", v, err)
		}
	}
}

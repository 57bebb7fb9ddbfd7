package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateProduct(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		product *Product
		wantErr error
	}{
		{
			name: "valid product",
			product: &Product{
				Id:         1,
				Name:       "Wormi Stop",
				Category:   CategoryAnthelmintic,
				InsertedAt: validTime,
				UpdatedAt:  validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid product with empty vector",
			product: &Product{
				Name:   "Calci Gold",
				Vector: nil,
			},
			wantErr: nil,
		},
		{
			name: "valid product with ID 0",
			product: &Product{
				Id:   0,
				Name: "Tikks-Stop",
			},
			wantErr: nil,
		},
		{
			name: "valid product with zero timestamps",
			product: &Product{
				Name: "Masti Care",
			},
			wantErr: nil,
		},
		{
			name:    "nil product",
			product: nil,
			wantErr: ErrInvalidProduct,
		},
		{
			name: "empty name",
			product: &Product{
				Category: CategoryAntibiotic,
			},
			wantErr: ErrEmptyProductName,
		},
		{
			name: "future inserted timestamp",
			product: &Product{
				Name:       "Wormi Stop",
				InsertedAt: futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
		{
			name: "future updated timestamp",
			product: &Product{
				Name:      "Wormi Stop",
				UpdatedAt: futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProduct(tt.product)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateProduct() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateProduct() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTurn(t *testing.T) {
	tests := []struct {
		name    string
		turn    *ConversationTurn
		wantErr error
	}{
		{
			name:    "valid user turn",
			turn:    &ConversationTurn{Role: TurnRoleUser, Text: "bukhar hai"},
			wantErr: nil,
		},
		{
			name:    "valid assistant turn",
			turn:    &ConversationTurn{Role: TurnRoleAssistant, Text: "Wormi Stop dijiye"},
			wantErr: nil,
		},
		{
			name:    "invalid role",
			turn:    &ConversationTurn{Role: TurnRole(99), Text: "hi"},
			wantErr: ErrInvalidTurnRole,
		},
		{
			name:    "empty text",
			turn:    &ConversationTurn{Role: TurnRoleUser},
			wantErr: ErrEmptyTurnText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTurn(tt.turn)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTurn() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTurn() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

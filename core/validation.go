// Copyright 2025 Madvet Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"time"
)

// ValidateProduct validates a Product according to domain rules.
//
// Validation rules:
//   - Name must not be empty (it is half of the dedup identity)
//   - Timestamps must not be in the future
//
// NOT validated:
//   - Vector (can be empty until the ingestion pipeline runs)
//   - Category (catalog rows carry free-ish text; matching is substring-based)
//   - ID (0 is valid before the repository assigns one)
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if product.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyProductName)
	}

	if !product.InsertedAt.IsZero() && !IsValidTimestamp(product.InsertedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrInvalidTimestamp)
	}
	if !product.UpdatedAt.IsZero() && !IsValidTimestamp(product.UpdatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateTurn validates a conversation turn.
func ValidateTurn(turn *ConversationTurn) error {
	if turn == nil {
		return fmt.Errorf("%w: turn is nil", ErrInvalidTurnRole)
	}
	if err := ValidateTurnRole(turn.Role); err != nil {
		return err
	}
	if turn.Text == "" {
		return ErrEmptyTurnText
	}
	return nil
}

// ValidateTurnRole validates that a TurnRole has a valid value.
func ValidateTurnRole(role TurnRole) error {
	if role != TurnRoleUser && role != TurnRoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidTurnRole, role)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}

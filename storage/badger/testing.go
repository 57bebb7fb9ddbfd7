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


package badger

import "github.com/madvet/vetsearch/storage"

// NewMemoryRepository creates an in-memory catalog repository for testing.
// Returns the repository and its backend; the caller must close both.
func NewMemoryRepository() (storage.CatalogRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}

	repo, err := NewProductRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}

	return repo, backend, nil
}

// NewRepository opens a catalog repository at the given path.
//
// Returns storage.CatalogRepository interface to enforce abstraction.
func NewRepository(path string) (storage.CatalogRepository, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}

	repo, err := NewProductRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &ownedRepository{ProductRepository: repo, backend: backend}, nil
}

// ownedRepository closes its backend along with the repository.
type ownedRepository struct {
	*ProductRepository
	backend *Backend
}

func (r *ownedRepository) Close() error {
	if err := r.ProductRepository.Close(); err != nil {
		r.backend.Close()
		return err
	}
	return r.backend.Close()
}

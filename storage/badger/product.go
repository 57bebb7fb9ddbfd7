package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/storage"
)

// ProductRepository implements storage.CatalogRepository for BadgerDB.
type ProductRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.CatalogRepository = (*ProductRepository)(nil)

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(backend *Backend) (*ProductRepository, error) {
	idSeq, err := backend.GetSequence(productIDSeq)
	if err != nil {
		return nil, err
	}

	return &ProductRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ProductRepository) Close() error {
	return r.idSeq.Release()
}

// FindSimilar delegates to the backend.
func (r *ProductRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *ProductRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddProducts adds one or more products to storage.
func (r *ProductRepository) AddProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, product := range products {
			// Backend rows arrive with IDs; imports without one draw
			// from the sequence.
			if product.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				product.Id = core.ID(nextID)
			}

			product.InsertedAt = time.Now().UTC()
			product.UpdatedAt = product.InsertedAt

			// Store primary record
			key := makeProductKey(product.Id)
			value := storage.MarshalProduct(product)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update name index
			nameKey := makeProductNameKey(product.Name)
			if err := tx.Set(nameKey, storage.MarshalID(product.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return products, err
}

// UpdateProducts updates existing products.
func (r *ProductRepository) UpdateProducts(ctx context.Context, products ...*core.Product) ([]*core.Product, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, product := range products {
			key := makeProductKey(product.Id)

			// Read old product to detect changes
			old, err := r.readProduct(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Update timestamp
			product.InsertedAt = old.InsertedAt
			product.UpdatedAt = time.Now().UTC()

			// Store updated record
			value := storage.MarshalProduct(product)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update name index if the name changed
			if old.Name != product.Name {
				oldNameKey := makeProductNameKey(old.Name)
				if err := tx.Delete(oldNameKey); err != nil {
					return err
				}
				newNameKey := makeProductNameKey(product.Name)
				if err := tx.Set(newNameKey, storage.MarshalID(product.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return products, err
}

// DeleteProducts removes products by their IDs.
func (r *ProductRepository) DeleteProducts(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeProductKey(id)

			// Read product to get metadata for index cleanup
			product, err := r.readProduct(tx, key)
			if err != nil {
				return err
			}
			if product == nil {
				return storage.ErrNotFound
			}

			// Delete from name index
			nameKey := makeProductNameKey(product.Name)
			if err := tx.Delete(nameKey); err != nil {
				return err
			}

			// Delete primary record
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetProduct retrieves a single product by ID.
func (r *ProductRepository) GetProduct(ctx context.Context, id core.ID) (*core.Product, error) {
	var result *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProductKey(id)
		var err error
		result, err = r.readProduct(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetProducts retrieves multiple products by their IDs.
func (r *ProductRepository) GetProducts(ctx context.Context, ids ...core.ID) ([]*core.Product, error) {
	var result []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeProductKey(id)
			product, err := r.readProduct(tx, key)
			if err != nil {
				return err
			}
			if product != nil {
				result = append(result, product)
			}
		}
		return nil
	}, false)
	return result, err
}

// ListProducts retrieves the full catalog.
func (r *ProductRepository) ListProducts(ctx context.Context) ([]*core.Product, error) {
	var results []*core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(productPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			key := item.Key()

			// Skip index keys and the sequence key
			if bytes.Equal(key, []byte(productIDSeq)) ||
				bytes.HasPrefix(key, []byte(productNamePrefix)) {
				continue
			}

			var product *core.Product
			err := item.Value(func(val []byte) error {
				var err error
				product, err = storage.UnmarshalProduct(val)
				return err
			})
			if err != nil {
				return err
			}
			if product != nil {
				results = append(results, product)
			}
		}
		return nil
	}, false)
	return results, err
}

// FindProductByName finds a product by its normalized name.
func (r *ProductRepository) FindProductByName(ctx context.Context, name string) (*core.Product, error) {
	var result *core.Product
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nameKey := makeProductNameKey(name)
		item, err := tx.Get(nameKey)
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = r.readProduct(tx, makeProductKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// readProduct reads a product from the transaction.
func (r *ProductRepository) readProduct(tx *badger.Txn, key []byte) (*core.Product, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var product *core.Product
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		product, unmarshalErr = storage.UnmarshalProduct(val)
		return unmarshalErr
	})
	return product, err
}

package badger

import (
	"fmt"

	"github.com/madvet/vetsearch/core"
	"github.com/madvet/vetsearch/lexicon"
)

// Key prefixes for different data types
const (
	productPrefix     = "prodrec"
	productNamePrefix = "prodrecn"
	productIDSeq      = "prodrecseq"
)

// makeProductKey generates a key for a product by ID.
func makeProductKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", productPrefix, id))
}

// makeProductNameKey generates a key for the name index. Names are
// normalized so lookups tolerate casing and punctuation drift.
func makeProductNameKey(name string) []byte {
	return []byte(productNamePrefix + ":" + lexicon.Normalize(name))
}

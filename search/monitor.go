package search

import (
	"github.com/madvet/vetsearch/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterExpansion(expanded *core.ExpandedQuery)
	FollowUpRerooted(priorTurn string)
	ExactHit(product *core.Product)
	AfterLexicalLayer(hits int)
	AfterFuzzyLayer(hits int)
	AfterSemanticLayer(hits int)
	ProductExcluded(product *core.Product, signal string)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                              {}
func (n *noopMonitor) AfterExpansion(_ *core.ExpandedQuery)        {}
func (n *noopMonitor) FollowUpRerooted(_ string)                   {}
func (n *noopMonitor) ExactHit(_ *core.Product)                    {}
func (n *noopMonitor) AfterLexicalLayer(_ int)                     {}
func (n *noopMonitor) AfterFuzzyLayer(_ int)                       {}
func (n *noopMonitor) AfterSemanticLayer(_ int)                    {}
func (n *noopMonitor) ProductExcluded(_ *core.Product, _ string)   {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)               {}

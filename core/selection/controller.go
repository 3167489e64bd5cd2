// Package selection tracks the single selected overlay entity.
package selection

import (
	"sync"

	"github.com/gridlens/gridlens/core/logger"
	"github.com/gridlens/gridlens/core/model"
)

// EntityFinder resolves a selection to the live entity, when it still exists.
type EntityFinder interface {
	FindEntity(model.Selection) (any, bool)
}

// Controller holds at most one selection. Selecting a new entity replaces
// the previous one. A selection stays valid even if the entity later leaves
// the data set; resolution then reports it as gone.
type Controller struct {
	mu         sync.Mutex
	log        logger.Logger
	finder     EntityFinder
	current    *model.Selection
	violations uint64
}

// NewController creates a controller resolving entities against the finder.
func NewController(finder EntityFinder, log logger.Logger) *Controller {
	return &Controller{finder: finder, log: log}
}

// SelectEntity classifies an entity from its structural marker fields and
// makes it the current selection. Records with zero or multiple markers are
// rejected and counted as upstream contract violations.
func (c *Controller) SelectEntity(id string, hasFuel, hasNodeKind, hasCountry bool) (model.Selection, error) {
	kind, err := model.ResolveEntityKind(hasFuel, hasNodeKind, hasCountry)
	if err != nil {
		c.mu.Lock()
		c.violations++
		c.mu.Unlock()
		c.log.Warnf("rejecting selection of %q: %v", id, err)
		return model.Selection{}, err
	}
	sel := model.Selection{Kind: kind, ID: id}
	c.mu.Lock()
	c.current = &sel
	c.mu.Unlock()
	return sel, nil
}

// Select makes an already classified selection current.
func (c *Controller) Select(sel model.Selection) {
	c.mu.Lock()
	c.current = &sel
	c.mu.Unlock()
}

// Clear drops the current selection. Clearing an empty selection is a no-op.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// Current returns the active selection, if any.
func (c *Controller) Current() (model.Selection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return model.Selection{}, false
	}
	return *c.current, true
}

// Resolve returns the selected entity from the live data. The second result
// is false when nothing is selected or the entity is no longer present.
func (c *Controller) Resolve() (any, bool) {
	sel, ok := c.Current()
	if !ok {
		return nil, false
	}
	return c.finder.FindEntity(sel)
}

// Violations reports how many malformed selection payloads were rejected.
func (c *Controller) Violations() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.violations
}

// Package view holds the orchestrating dashboard state: which entity is
// selected, which settled data set is current, and what the user should see.
package view

import (
	"errors"
	"sync"

	"assetscope/internal/market"
)

var (
	ErrNotInDetail   = errors.New("no entity selected")
	ErrUnknownEntity = errors.New("unknown entity")
	ErrClosed        = errors.New("board closed")
)

type Mode string

const (
	ModeBrowsing Mode = "browsing"
	ModeDetail   Mode = "detail"
)

// State is a copy of the machine at one instant.
type State struct {
	Mode      Mode             `json:"mode"`
	Selection market.Selection `json:"selection"`
}

// Machine switches between browsing the catalog and viewing one entity. The
// window survives entity changes and Back.
type Machine struct {
	mu     sync.Mutex
	mode   Mode
	entity string
	window market.Window
}

func NewMachine(window market.Window) *Machine {
	return &Machine{mode: ModeBrowsing, window: window}
}

// Open enters (or stays in) Detail for entityID.
func (m *Machine) Open(entityID string) (market.Selection, error) {
	if entityID == "" {
		return market.Selection{}, ErrUnknownEntity
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = ModeDetail
	m.entity = entityID
	return market.Selection{EntityID: m.entity, Window: m.window}, nil
}

// SetWindow changes the window of the active entity. The state identity does
// not change; callers refetch under a fresh generation.
func (m *Machine) SetWindow(w market.Window) (market.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode != ModeDetail {
		return market.Selection{}, ErrNotInDetail
	}
	m.window = w
	return market.Selection{EntityID: m.entity, Window: m.window}, nil
}

// Back returns to Browsing. It reports false when already browsing.
func (m *Machine) Back() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == ModeBrowsing {
		return false
	}
	m.mode = ModeBrowsing
	m.entity = ""
	return true
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := State{Mode: m.mode, Selection: market.Selection{Window: m.window}}
	if m.mode == ModeDetail {
		st.Selection.EntityID = m.entity
	}
	return st
}

// Display is the single message state derived from a board. Exactly one
// applies at any time.
type Display string

const (
	DisplayLoadingCatalog Display = "loading_catalog"
	DisplayEmpty          Display = "empty"
	DisplayBrowsing       Display = "browsing"
	DisplayLoadingDetail  Display = "loading_detail"
	DisplayNoData         Display = "no_data"
	DisplayFailed         Display = "failed"
	DisplayReady          Display = "ready"
)

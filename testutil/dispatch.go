package testutil

import (
	"context"

	"github.com/cgslivre/flight/event"
)

// DispatchBuilder event dispatch builder
type DispatchBuilder struct {
	name   string
	target interface{}
	before []interface{}
	after  []interface{}
	params []interface{}
}

// NewDispatch creates a dispatch builder for the named event
func NewDispatch(name string) *DispatchBuilder {
	return &DispatchBuilder{name: name}
}

// WithTarget sets the event target
func (db *DispatchBuilder) WithTarget(target interface{}) *DispatchBuilder {
	db.target = target
	return db
}

// WithBefore appends before-filters
func (db *DispatchBuilder) WithBefore(filters ...interface{}) *DispatchBuilder {
	db.before = append(db.before, filters...)
	return db
}

// WithAfter appends after-filters
func (db *DispatchBuilder) WithAfter(filters ...interface{}) *DispatchBuilder {
	db.after = append(db.after, filters...)
	return db
}

// WithParams appends dispatch parameters
func (db *DispatchBuilder) WithParams(params ...interface{}) *DispatchBuilder {
	db.params = append(db.params, params...)
	return db
}

// Register installs the target and filters on d without dispatching
func (db *DispatchBuilder) Register(d event.Dispatcher) *DispatchBuilder {
	if db.target != nil {
		d.Set(db.name, db.target)
	}
	for _, f := range db.before {
		d.Hook(db.name, event.PhaseBefore, f)
	}
	for _, f := range db.after {
		d.Hook(db.name, event.PhaseAfter, f)
	}
	return db
}

// Do registers everything on d and dispatches the event
func (db *DispatchBuilder) Do(ctx context.Context, d event.Dispatcher) *DispatchResult {
	db.Register(d)
	out, err := d.Run(ctx, db.name, db.params...)
	return &DispatchResult{Output: out, Err: err}
}

// DispatchResult dispatch result helper
type DispatchResult struct {
	Output interface{}
	Err    error
}

// Succeeded reports whether the dispatch returned without error
func (dr *DispatchResult) Succeeded() bool {
	return dr.Err == nil
}

// StringOutput returns the output as a string, "" when it is not one
func (dr *DispatchResult) StringOutput() string {
	s, _ := dr.Output.(string)
	return s
}

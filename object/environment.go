package object

import (
	"fmt"

	"github.com/edwingeng/deque"
)

type handle int

const noParent handle = -1

type scope struct {
	store  map[string]Object
	parent handle
	// pinned scopes are referenced by a closure and are never released
	pinned bool
}

// arena owns every scope of one interpreter session. Scopes point at their
// parent by handle, so sharing a parent needs no reference cycles.
type arena struct {
	scopes []scope
	free   deque.Deque // released handles, reused before growing scopes
}

func (a *arena) alloc(parent handle) handle {
	s := scope{store: make(map[string]Object), parent: parent}

	if !a.free.Empty() {
		h := a.free.PopBack().(handle)
		a.scopes[h] = s
		return h
	}

	a.scopes = append(a.scopes, s)
	return handle(len(a.scopes) - 1)
}

// UndefinedVariableError is returned by Get and Assign when no scope in the
// chain binds the name.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'.", e.Name)
}

// Environment is a handle to one scope. Every holder of an Environment for
// the same scope observes the same bindings.
type Environment struct {
	arena *arena
	h     handle
}

// NewEnvironment creates a top-level scope in a fresh arena.
func NewEnvironment() *Environment {
	a := &arena{free: deque.NewDeque()}
	return &Environment{arena: a, h: a.alloc(noParent)}
}

// NewEnclosedEnvironment creates a child scope of outer. Several children may
// share the same outer scope.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{arena: outer.arena, h: outer.arena.alloc(outer.h)}
}

func (e *Environment) scope(h handle) *scope {
	return &e.arena.scopes[h]
}

// Outer returns the parent scope, or nil for a top-level scope.
func (e *Environment) Outer() *Environment {
	parent := e.scope(e.h).parent
	if parent == noParent {
		return nil
	}
	return &Environment{arena: e.arena, h: parent}
}

// Define binds name in this scope, shadowing or overwriting as needed.
func (e *Environment) Define(name string, val Object) {
	e.scope(e.h).store[name] = val
}

// Get resolves name starting at this scope and walking outward.
func (e *Environment) Get(name string) (Object, error) {
	for h := e.h; h != noParent; h = e.scope(h).parent {
		if obj, ok := e.scope(h).store[name]; ok {
			return obj, nil
		}
	}
	return nil, &UndefinedVariableError{Name: name}
}

// Assign rebinds an existing name in the nearest scope that defines it. It
// never creates a binding.
func (e *Environment) Assign(name string, val Object) error {
	for h := e.h; h != noParent; h = e.scope(h).parent {
		s := e.scope(h)
		if _, ok := s.store[name]; ok {
			s.store[name] = val
			return nil
		}
	}
	return &UndefinedVariableError{Name: name}
}

// Capture pins this scope and all of its ancestors so a closure can keep
// using them after the blocks that created them have exited.
func (e *Environment) Capture() {
	for h := e.h; h != noParent; h = e.scope(h).parent {
		s := e.scope(h)
		if s.pinned {
			return
		}
		s.pinned = true
	}
}

// Release returns the scope's slot to the arena. Pinned and top-level scopes
// are kept. e must not be used afterwards.
func (e *Environment) Release() {
	s := e.scope(e.h)
	if s.pinned || s.parent == noParent || s.store == nil {
		return
	}
	s.store = nil
	e.arena.free.PushBack(e.h)
}

package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", &Number{Value: 1})

	got, err := env.Get("x")
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 1}, got)

	// define overwrites in the same scope
	env.Define("x", &String{Value: "s"})
	got, err = env.Get("x")
	require.NoError(t, err)
	assert.Equal(t, &String{Value: "s"}, got)
}

func TestChildDefinitionIsInvisibleToParent(t *testing.T) {
	parent := NewEnvironment()
	child := NewEnclosedEnvironment(parent)
	child.Define("x", &Number{Value: 1})

	got, err := child.Get("x")
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 1}, got)

	_, err = parent.Get("x")
	var undefined *UndefinedVariableError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "x", undefined.Name)
	assert.Equal(t, "Undefined variable 'x'.", err.Error())
}

func TestAssignUpdatesOwningScopeForAllChildren(t *testing.T) {
	parent := NewEnvironment()
	parent.Define("x", &Number{Value: 1})

	child := NewEnclosedEnvironment(parent)
	sibling := NewEnclosedEnvironment(parent)

	require.NoError(t, child.Assign("x", &Number{Value: 2}))

	for _, env := range []*Environment{parent, child, sibling} {
		got, err := env.Get("x")
		require.NoError(t, err)
		assert.Equal(t, &Number{Value: 2}, got)
	}
}

func TestShadowingLeavesOuterBinding(t *testing.T) {
	parent := NewEnvironment()
	parent.Define("x", &Number{Value: 1})

	child := NewEnclosedEnvironment(parent)
	child.Define("x", &Number{Value: 10})
	require.NoError(t, child.Assign("x", &Number{Value: 11}))

	got, _ := parent.Get("x")
	assert.Equal(t, &Number{Value: 1}, got)
	got, _ = child.Get("x")
	assert.Equal(t, &Number{Value: 11}, got)
}

func TestAssignNeverCreatesBinding(t *testing.T) {
	parent := NewEnvironment()
	child := NewEnclosedEnvironment(parent)

	err := child.Assign("missing", &Nil{})
	var undefined *UndefinedVariableError
	require.ErrorAs(t, err, &undefined)

	_, err = child.Get("missing")
	assert.Error(t, err)
}

func TestLookupWalksSeveralLevels(t *testing.T) {
	global := NewEnvironment()
	global.Define("g", &Boolean{Value: true})

	env := global
	for i := 0; i < 5; i++ {
		env = NewEnclosedEnvironment(env)
	}

	got, err := env.Get("g")
	require.NoError(t, err)
	assert.Equal(t, &Boolean{Value: true}, got)
	assert.Nil(t, global.Outer())
	assert.NotNil(t, env.Outer())
}

func TestReleasedSlotsAreReused(t *testing.T) {
	global := NewEnvironment()

	child := NewEnclosedEnvironment(global)
	child.Define("tmp", &Number{Value: 1})
	slot := child.h
	child.Release()
	child.Release() // second release is a no-op

	reused := NewEnclosedEnvironment(global)
	assert.Equal(t, slot, reused.h)
	_, err := reused.Get("tmp")
	assert.Error(t, err, "a reused slot starts empty")

	next := NewEnclosedEnvironment(global)
	assert.NotEqual(t, reused.h, next.h)
}

func TestCapturedScopesSurviveRelease(t *testing.T) {
	global := NewEnvironment()
	block := NewEnclosedEnvironment(global)
	block.Define("x", &Number{Value: 1})
	inner := NewEnclosedEnvironment(block)

	inner.Capture()
	inner.Release()
	block.Release()

	got, err := inner.Get("x")
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 1}, got)

	fresh := NewEnclosedEnvironment(global)
	assert.NotEqual(t, block.h, fresh.h)
	assert.NotEqual(t, inner.h, fresh.h)
}

func TestTopLevelIsNeverReleased(t *testing.T) {
	global := NewEnvironment()
	global.Define("x", &Number{Value: 1})
	global.Release()

	got, err := global.Get("x")
	require.NoError(t, err)
	assert.Equal(t, &Number{Value: 1}, got)
}

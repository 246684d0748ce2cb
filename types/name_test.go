package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wireway/factory/types"
)

func TestNameOfIdentity(t *testing.T) {
	a := types.NameOf[int]("x")
	b := types.NameOf[int]("x")
	assert.Equal(t, a, b)
	assert.True(t, a == b)
}

func TestNameOfDiscriminates(t *testing.T) {
	a := types.NameOf[int]("x")
	b := types.NameOf[int]("y")
	assert.NotEqual(t, a, b)
}

func TestNameString(t *testing.T) {
	n := types.NameOf[string]("primary")
	assert.Contains(t, n.String(), "primary")

	anon := types.NameOf[string]("")
	assert.NotContains(t, anon.String(), "/")
}

func TestAssignable(t *testing.T) {
	type iface interface{ M() }
	var target = types.NameOf[iface]("").Class
	concrete := types.NameOf[*concreteImpl]("").Class
	assert.True(t, types.Assignable(concrete, target))
}

type concreteImpl struct{}

func (*concreteImpl) M() {}

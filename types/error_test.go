package types_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wireway/factory/types"
)

func TestMachineNotFoundMessageListsSimilar(t *testing.T) {
	name := types.NameOf[string]("primary")
	similar := types.NameOf[string]("secondary")
	err := &types.MachineNotFound{Query: "Name[string/primary]", Name: name, Similar: []types.Name{similar}}
	assert.Contains(t, err.Error(), "primary")
	assert.Contains(t, err.Error(), "secondary")
}

func TestUnsatisfiedDependencyUnwrapsCause(t *testing.T) {
	cause := &types.MachineNotFound{Name: types.NameOf[string]("x")}
	dep := &types.UnsatisfiedDependency{Path: "root -> Name[x]", Query: "Name[x]", Cause: cause}

	assert.Same(t, cause, errors.Unwrap(dep))
	var mnf *types.MachineNotFound
	assert.True(t, errors.As(dep, &mnf))
}

func TestUnsatisfiedDependenciesAggregatesAndReportsEmpty(t *testing.T) {
	u := types.NewUnsatisfiedDependencies()
	assert.True(t, u.Empty())
	assert.NoError(t, u.ErrorOrNil())

	u.Add(&types.UnsatisfiedDependency{Path: "a", Query: "Name[a]", Cause: errors.New("boom")})
	u.Add(&types.UnsatisfiedDependency{Path: "b", Query: "Name[b]", Cause: errors.New("bang")})

	assert.False(t, u.Empty())
	assert.Error(t, u.ErrorOrNil())
	assert.Len(t, u.Causes(), 2)
}

func TestCycleErrorListsEveryStuckName(t *testing.T) {
	a := types.NameOf[string]("a")
	b := types.NameOf[string]("b")
	err := &types.Cycle{Names: []types.Name{a, b}}
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
}

func TestDuplicateNameMessageNamesTheBucket(t *testing.T) {
	err := &types.DuplicateName{Bucket: "explicit", Name: types.NameOf[string]("dup")}
	assert.Contains(t, err.Error(), "explicit")
	assert.Contains(t, err.Error(), "dup")
}

func TestRuleDiscoveryFailureUnwraps(t *testing.T) {
	cause := errors.New("network down")
	err := &types.RuleDiscoveryFailure{Source: "mqtt", Err: cause}
	assert.Same(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "mqtt")
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("3")
	require.NoError(t, err)
	assert.Equal(t, uint(3), v)

	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, err := parseVersion(raw)
		assert.Error(t, err, raw)
	}
}

func TestCommandTree(t *testing.T) {
	cases := []struct {
		cmd  string
		subs []string
	}{
		{cmd: revisionsCmd().Name(), subs: []string{"list", "show"}},
		{cmd: previewCmd().Name(), subs: []string{"issue", "purge"}},
		{cmd: usersCmd().Name(), subs: []string{"create"}},
	}
	roots := map[string][]string{}
	for _, cmd := range append(revisionsCmd().Commands(), append(previewCmd().Commands(), usersCmd().Commands()...)...) {
		roots[cmd.Parent().Name()] = append(roots[cmd.Parent().Name()], cmd.Name())
	}
	for _, tc := range cases {
		assert.ElementsMatch(t, tc.subs, roots[tc.cmd], tc.cmd)
	}
}

func TestRollbackRequiresThreeArgs(t *testing.T) {
	cmd := rollbackCmd()
	assert.Error(t, cmd.Args(cmd, []string{"post-id", "en"}))
	assert.NoError(t, cmd.Args(cmd, []string{"post-id", "en", "1"}))
}

package inventory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/ansigo-inventory/pkg/errors"
	"github.com/jimyag/ansigo-inventory/pkg/loader"
)

func newTestManager(t *testing.T, files map[string]string) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	l, err := loader.New()
	require.NoError(t, err)
	return NewManager(l), dir
}

func TestManagerLoad(t *testing.T) {
	invMgr, dir := newTestManager(t, map[string]string{
		"web.yml":    "webservers:\n  hosts:\n    host1: {ansible_port: 22}\n    host2: null\n  children: [canary]\n",
		"groups.yml": `dbservers: [host3, {host4: {env: "prod"}}]`,
		"site.yml":   "- hosts: all\n  tasks: []\n",
	})
	require.NoError(t, invMgr.Load(context.Background(), dir))

	group, err := invMgr.GetGroup("webservers")
	require.NoError(t, err)
	assert.Equal(t, []string{"host1", "host2"}, group.Hosts)
	assert.Equal(t, []string{"canary"}, group.Children)

	group, err = invMgr.GetGroup("dbservers")
	require.NoError(t, err)
	assert.Equal(t, []string{"host3", "host4"}, group.Hosts)

	host, err := invMgr.GetHost("host4")
	require.NoError(t, err)
	assert.Equal(t, "host4", host.Name)
	assert.Equal(t, map[string]interface{}{"env": "prod"}, host.Vars)
	assert.Equal(t, host.Vars, invMgr.HostVars("host4"))

	// groups.yml 排在 web.yml 之前
	assert.Equal(t, []string{"dbservers", "webservers"}, invMgr.Inventory().GroupNames())
}

func TestManagerNotFound(t *testing.T) {
	invMgr, dir := newTestManager(t, map[string]string{"web.yml": "web: [w1]\n"})
	require.NoError(t, invMgr.Load(context.Background(), dir))

	_, err := invMgr.GetHost("missing")
	assert.EqualError(t, err, "host not found: missing")

	_, err = invMgr.GetGroup("canary")
	assert.EqualError(t, err, "group not found: canary")
	assert.Equal(t, map[string]interface{}{}, invMgr.HostVars("missing"))
}

func TestManagerNoDocuments(t *testing.T) {
	invMgr, dir := newTestManager(t, map[string]string{
		"README.md": "# no yaml here",
		"empty.yml": "# comments only\n",
	})

	err := invMgr.Load(context.Background(), dir)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrNoDocuments))

	_, err = invMgr.GetGroup("web")
	assert.Error(t, err)
	assert.Empty(t, invMgr.Inventory().GroupNames())
}

func TestManagerMergedHosts(t *testing.T) {
	invMgr, dir := newTestManager(t, map[string]string{
		"web.yml": "defaults: &d {h1: {a: 1}}\nweb: {hosts: {<<: *d, h2: }}\n",
	})
	require.NoError(t, invMgr.Load(context.Background(), dir))

	group, err := invMgr.GetGroup("web")
	require.NoError(t, err)
	assert.Equal(t, []string{"h1", "h2"}, group.Hosts)

	_, err = invMgr.GetHost("<<")
	assert.Error(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1}, invMgr.HostVars("h1"))
}

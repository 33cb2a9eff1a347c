package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceAdd_DedupsAndPersists(t *testing.T) {
	env := newTestEnv(t, nil, "nginx")

	var out bytes.Buffer
	require.NoError(t, serviceAdd(&out, []string{"mysql", "nginx", "redis", "mysql"}))

	assert.Equal(t, []string{"nginx", "mysql", "redis"}, env.registry(t).Services())
	assert.Contains(t, out.String(), "Added services: mysql, redis")
	assert.Contains(t, out.String(), "Already registered: nginx, mysql")
}

func TestServiceAdd_AllDuplicates(t *testing.T) {
	newTestEnv(t, nil, "nginx")

	var out bytes.Buffer
	require.NoError(t, serviceAdd(&out, []string{"nginx"}))

	assert.NotContains(t, out.String(), "Added")
	assert.Contains(t, out.String(), "Already registered: nginx")
}

func TestServiceAdd_RejectsQuotes(t *testing.T) {
	env := newTestEnv(t, nil)

	err := serviceAdd(&bytes.Buffer{}, []string{"ng'inx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "isn't a valid service name")
	assert.Empty(t, env.registry(t).Services())
}

func TestServiceAdd_InvalidNameLaterInBatchAddsNothing(t *testing.T) {
	env := newTestEnv(t, nil, "nginx")

	var out bytes.Buffer
	err := serviceAdd(&out, []string{"mysql", "redis", "bad name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'bad name' isn't a valid service name")

	assert.Equal(t, []string{"nginx"}, env.registry(t).Services())
	assert.NotContains(t, out.String(), "Added")
}

func TestCleanServiceNames(t *testing.T) {
	valid, err := cleanServiceNames([]string{" nginx ", "", "mysql"})
	require.NoError(t, err)
	assert.Equal(t, []string{"nginx", "mysql"}, valid)

	valid, err = cleanServiceNames([]string{"nginx", "my\"sql"})
	require.Error(t, err)
	assert.Nil(t, valid)
}

func TestServiceAdd_NoArgsNonInteractive(t *testing.T) {
	newTestEnv(t, nil)

	err := serviceAdd(&bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No service names given")
}

func TestServiceAddHelp_NamesDatabaseService(t *testing.T) {
	assert.Contains(t, serviceAddCmd.Long, "(mysql by\ndefault)")
	assert.Contains(t, serviceAddCmd.Long, "svcmon service add nginx mysql redis")
	assert.NotContains(t, serviceAddCmd.Long, "mysqld")
}

func TestServiceList_ShowsKind(t *testing.T) {
	newTestEnv(t, nil, "nginx", "mysql")

	var out bytes.Buffer
	require.NoError(t, serviceList(&out))

	output := out.String()
	assert.Contains(t, output, "nginx")
	assert.Contains(t, output, "systemd")
	assert.Contains(t, output, "database")
}

package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/recipebox/internal/browse"
	"github.com/csheth/recipebox/internal/config"
)

const kitchenCSV = "\ufeffFood,Picture,Tag,Ingredients,Preparation\n" +
	"Gulyásleves,gulyas.jpg,Soup,\"LEVES\n1 kg beef\n2 onions\",Simmer for two hours.\n" +
	"Palacsinta,,Dessert,\"2 eggs\nflour\nmilk\",Fry thin.\n" +
	"Lecsó,,Main,,\n" +
	"Halászlé,,Soup,,\n" +
	"Rétes,,Dessert,,\n" +
	"Pörkölt,,Main,,\n" +
	"Kenyér,,,,\n"

func sheetServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// executeCommand runs a fresh root command with args and returns captured output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func baseArgs(t *testing.T, server *httptest.Server, args ...string) []string {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "recipebox.log")
	return append(args, "--source", server.URL+"/pub?output=csv", "--no-cache", "--log-file", logFile)
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "recipebox", root.Use)

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"list", "show", "tags"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
	for _, flag := range []string{"config", "source", "page-size", "no-cache", "log-file", "log-level", "no-alt-screen"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing flag --%s", flag)
	}
}

func TestListPrintsFirstPage(t *testing.T) {
	server := sheetServer(t, kitchenCSV, http.StatusOK)
	out, err := executeCommand(t, baseArgs(t, server, "list", "--page-size", "4")...)
	require.NoError(t, err)

	assert.Contains(t, out, "Page 1/2 · 7 of 7 recipes · tag all")
	assert.Contains(t, out, "1. Gulyásleves")
	assert.Contains(t, out, "4. Halászlé")
	assert.NotContains(t, out, "Rétes")
}

func TestListSecondPageAndClamp(t *testing.T) {
	server := sheetServer(t, kitchenCSV, http.StatusOK)

	out, err := executeCommand(t, baseArgs(t, server, "list", "--page-size", "4", "--page", "2")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Page 2/2")
	assert.Contains(t, out, "5. Rétes")
	assert.Contains(t, out, "7. Kenyér")

	out, err = executeCommand(t, baseArgs(t, server, "list", "--page-size", "4", "--page", "99")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Page 2/2")
}

func TestListFiltersByTagAndSearch(t *testing.T) {
	server := sheetServer(t, kitchenCSV, http.StatusOK)

	out, err := executeCommand(t, baseArgs(t, server, "list", "--tag", "Soup")...)
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 7 recipes · tag Soup")
	assert.Contains(t, out, "Halászlé")
	assert.NotContains(t, out, "Palacsinta")

	out, err = executeCommand(t, baseArgs(t, server, "list", "--search", "LECS")...)
	require.NoError(t, err)
	assert.Contains(t, out, "1. Lecsó")
	assert.Contains(t, out, "1 of 7 recipes")

	out, err = executeCommand(t, baseArgs(t, server, "list", "--tag", "Soup", "--search", "pal")...)
	require.NoError(t, err)
	assert.Contains(t, out, "No recipes match.")
}

func TestListRejectsUnknownTag(t *testing.T) {
	server := sheetServer(t, kitchenCSV, http.StatusOK)
	_, err := executeCommand(t, baseArgs(t, server, "list", "--tag", "Breakfast")...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, browse.ErrUnknownTag))
	assert.Contains(t, err.Error(), "Soup, Dessert, Main")
}

func TestShowPrintsPlainRecipe(t *testing.T) {
	server := sheetServer(t, kitchenCSV, http.StatusOK)
	out, err := executeCommand(t, baseArgs(t, server, "show", "gulyásleves", "--plain")...)
	require.NoError(t, err)
	want := "Gulyásleves\n\nIngredients:\n\nLEVES\n- 1 kg beef\n- 2 onions\n\nPreparation:\nSimmer for two hours.\n"
	assert.Equal(t, want, out)
}

func TestShowRendersMarkdown(t *testing.T) {
	server := sheetServer(t, kitchenCSV, http.StatusOK)
	t.Setenv("RECIPEBOX_UI_GLAMOUR_STYLE", "notty")
	out, err := executeCommand(t, baseArgs(t, server, "show", "Palacsinta")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Palacsinta")
	assert.Contains(t, out, "2 eggs")
	assert.Contains(t, out, "Fry thin.")
}

func TestShowUnknownRecipe(t *testing.T) {
	server := sheetServer(t, kitchenCSV, http.StatusOK)
	_, err := executeCommand(t, baseArgs(t, server, "show", "Pizza")...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, browse.ErrNoRecipe))
}

func TestTagsListsFirstSeenOrder(t *testing.T) {
	server := sheetServer(t, kitchenCSV, http.StatusOK)
	out, err := executeCommand(t, baseArgs(t, server, "tags")...)
	require.NoError(t, err)
	assert.Equal(t, "Soup (2)\nDessert (2)\nMain (2)\n1 untagged\n", out)
}

func TestLoadFailureSurfacesAsError(t *testing.T) {
	server := sheetServer(t, "gone", http.StatusNotFound)
	_, err := executeCommand(t, baseArgs(t, server, "list")...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, browse.ErrLoadFailure))
	assert.Contains(t, err.Error(), "404")
}

func TestInvalidConfigIsRejected(t *testing.T) {
	server := sheetServer(t, kitchenCSV, http.StatusOK)
	_, err := executeCommand(t, baseArgs(t, server, "list", "--page-size", "0")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browse.page_size")
}

func TestConfigFileSuppliesSource(t *testing.T) {
	server := sheetServer(t, kitchenCSV, http.StatusOK)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "source:\n  url: " + server.URL + "/pub?output=csv\nbrowse:\n  page_size: 2\ncache:\n  enabled: false\nlog:\n  file: " + filepath.Join(dir, "log.json") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := executeCommand(t, "list", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Page 1/4")
	assert.Contains(t, out, "2. Palacsinta")
}

func TestBindFlagsOverridesOnlyChangedFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--source", "http://example.test/x.csv", "--no-cache", "--no-alt-screen"}))

	v := config.New("")
	require.NoError(t, bindFlags(v, root))
	assert.Equal(t, "http://example.test/x.csv", v.GetString("source.url"))
	assert.False(t, v.GetBool("cache.enabled"))
	assert.False(t, v.GetBool("ui.alt_screen"))
	assert.Equal(t, 24, v.GetInt("browse.page_size"))
	assert.Equal(t, "info", v.GetString("log.level"))
}

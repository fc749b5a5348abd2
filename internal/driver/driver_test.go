package driver_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uno/internal/cache"
	"uno/internal/diag"
	"uno/internal/driver"
	"uno/internal/fix"
	"uno/internal/pipeline"
	"uno/internal/project"
	"uno/internal/trace"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestCollectFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.html":                  "",
		"sub/b.templ":             "",
		"sub/c.txt":               "",
		"node_modules/lib/d.html": "",
		"main.go":                 "",
	})

	files, err := driver.CollectFiles([]string{dir, filepath.Join(dir, "sub", "c.txt")}, project.Default())
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"a.html", "main.go", "sub/b.templ", "sub/c.txt"}, rel)

	_, err = driver.CollectFiles([]string{filepath.Join(dir, "missing")}, project.Default())
	assert.Error(t, err)
}

func TestFormatPathsRewritesSites(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.html": `<div class="hover:(bg-gray-400 font-medium) font-(light mono)">x</div>` + "\n",
		"view.go": "package view\n\nvar c = uno.Classes(\"p-(1 2)\", `m-(x y)`)\n",
		"plain.html": `<p class="  a   b ">keep</p>` + "\n",
	})

	rec := &pipeline.Recorder{}
	res, err := driver.FormatPaths(context.Background(), []string{dir}, driver.FormatOptions{
		Options: driver.Options{Config: project.Default(), Jobs: 2, Progress: rec},
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	assert.Empty(t, res.Failed())
	assert.Len(t, res.Changed(), 2)

	assert.Equal(t,
		`<div class="hover:bg-gray-400 hover:font-medium font-light font-mono">x</div>`+"\n",
		readFile(t, filepath.Join(dir, "index.html")))
	assert.Equal(t,
		"package view\n\nvar c = uno.Classes(\"p-1 p-2\", `m-x m-y`)\n",
		readFile(t, filepath.Join(dir, "view.go")))
	// только пробелы: файл не трогаем
	assert.Equal(t, `<p class="  a   b ">keep</p>`+"\n", readFile(t, filepath.Join(dir, "plain.html")))

	finished := 0
	for _, ev := range rec.Events() {
		if ev.File != "" && ev.Status.Finished() {
			finished++
		}
	}
	assert.Equal(t, 3, finished)
}

func TestFormatPathsCheckAndStdout(t *testing.T) {
	const page = "<a class=\"p-(1 2)\">\r\n</a>\r\n"
	dir := writeFiles(t, map[string]string{"a.html": page})
	path := filepath.Join(dir, "a.html")

	res, err := driver.FormatPaths(context.Background(), []string{path}, driver.FormatOptions{
		Options: driver.Options{Config: project.Default()},
		Check:   true,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.True(t, res.Files[0].Changed)
	assert.Equal(t, page, readFile(t, path))

	res, err = driver.FormatPaths(context.Background(), []string{path}, driver.FormatOptions{
		Options: driver.Options{Config: project.Default()},
		Stdout:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "<a class=\"p-1 p-2\">\r\n</a>\r\n", string(res.Files[0].Formatted))
	assert.Equal(t, page, readFile(t, path))
}

func TestFormatPathsMerge(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.html": `<a class="p-(1 2)">` + "\n"})
	cfg := project.Default()
	cfg.Output.Merge = true

	_, err := driver.FormatPaths(context.Background(), []string{dir}, driver.FormatOptions{
		Options: driver.Options{Config: cfg},
	})
	require.NoError(t, err)
	assert.Equal(t, `<a class="p-2">`+"\n", readFile(t, filepath.Join(dir, "a.html")))
}

func TestFormatPathsCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.html": `<a class="p-(1 2)">` + "\n"})
	disk, err := cache.OpenDir(t.TempDir())
	require.NoError(t, err)
	opts := driver.FormatOptions{Options: driver.Options{Config: project.Default(), Cache: disk}}

	first, err := driver.FormatPaths(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	assert.True(t, first.Files[0].Changed)
	assert.False(t, first.Files[0].Cached)

	second, err := driver.FormatPaths(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	assert.False(t, second.Files[0].Changed)
	assert.True(t, second.Files[0].Cached)
	assert.Equal(t, 1, second.Files[0].Sites)
}

func TestDiagnosePaths(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.html": `<div class="p-(2 4">` + "\n" + `<p class="m-(1 2) m-1">ok</p>` + "\n",
		"b.html": `<p class="clean">ok</p>` + "\n",
	})

	res, err := driver.DiagnosePaths(context.Background(), []string{dir}, driver.DiagnoseOptions{
		Options: driver.Options{Config: project.Default(), BaseDir: dir},
	})
	require.NoError(t, err)
	// на одном span предупреждение идёт раньше info
	assert.Equal(t, []diag.Code{diag.GroupUnclosed, diag.StyleDuplicateClass, diag.StyleExpandable}, codes(res.Bag))

	items := res.Bag.Items()
	file := res.FileSet.Get(items[0].Primary.File)
	assert.Equal(t, "p-(", file.Text(items[0].Primary))
	require.Len(t, items[0].Fixes, 1)
	closeEdit := items[0].Fixes[0].Edits[0]
	assert.Equal(t, ")", closeEdit.NewText)
	assert.True(t, closeEdit.Span.Empty())
	assert.Equal(t, `<div class="p-(2 4`, string(file.Content[:closeEdit.Span.Start]))
	assert.Equal(t, diag.FixApplicabilityManualReview, items[0].Fixes[0].Applicability)

	require.Len(t, items[1].Fixes, 1)
	assert.Equal(t, "m-1 m-2", items[1].Fixes[0].Edits[0].NewText)
	require.Len(t, items[2].Fixes, 1)
	assert.Equal(t, "m-1 m-2 m-1", items[2].Fixes[0].Edits[0].NewText)
	assert.True(t, items[2].Fixes[0].IsPreferred)
}

func TestDiagnosePathsUnsupportedFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"notes.txt": "class=\"a\"\n"})

	res, err := driver.DiagnosePaths(context.Background(), []string{filepath.Join(dir, "notes.txt")}, driver.DiagnoseOptions{
		Options: driver.Options{Config: project.Default()},
	})
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.IOUnsupportedFile}, codes(res.Bag))
	assert.True(t, res.Bag.HasErrors())
	assert.Error(t, res.Files[0].Err)
}

func TestFixPaths(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.html": `<a class="x:(a b)"></a><b class="y-(c d)"></b>` + "\n",
	})

	res, err := driver.FixPaths(context.Background(), []string{dir},
		driver.DiagnoseOptions{Options: driver.Options{Config: project.Default()}},
		fix.ApplyOptions{Mode: fix.ApplyModeAll})
	require.NoError(t, err)
	assert.Len(t, res.Apply.Applied, 2)
	assert.Equal(t, `<a class="x:a x:b"></a><b class="y-c y-d"></b>`+"\n", readFile(t, filepath.Join(dir, "a.html")))

	_, err = driver.FixPaths(context.Background(), []string{dir},
		driver.DiagnoseOptions{Options: driver.Options{Config: project.Default()}},
		fix.ApplyOptions{Mode: fix.ApplyModeAll})
	assert.ErrorIs(t, err, fix.ErrNoFixes)
}

func TestFormatPathsCancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.html": `<a class="p-(1 2)">`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := driver.FormatPaths(ctx, []string{dir}, driver.FormatOptions{
		Options: driver.Options{Config: project.Default()},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, `<a class="p-(1 2)">`, readFile(t, filepath.Join(dir, "a.html")))
}

func TestTraceLevels(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.html": `<a class="p-(1 2)"></a>` + "\n"})

	run := func(level trace.Level) string {
		var buf bytes.Buffer
		ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&buf, level, trace.FormatText))
		_, err := driver.DiagnosePaths(ctx, []string{dir}, driver.DiagnoseOptions{
			Options: driver.Options{Config: project.Default()},
		})
		require.NoError(t, err)
		return buf.String()
	}

	phase := run(trace.LevelPhase)
	assert.Contains(t, phase, "→ diag")
	assert.Contains(t, phase, "← process")
	assert.NotContains(t, phase, "a.html")

	debug := run(trace.LevelDebug)
	assert.Contains(t, debug, "a.html")
	assert.Contains(t, debug, "• site ('p-(1 2)': 1 finding(s))")
}

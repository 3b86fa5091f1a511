package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/pgm-vision/internal/raster"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(BuildInfo{Version: "test"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// writeScene writes an 8x8 gray image with two bright blocks and one dim
// pixel at (0,7).
func writeScene(t *testing.T, dir string) string {
	t.Helper()
	g := raster.MustGrid(8, 8)
	for i := 1; i <= 2; i++ {
		for j := 1; j <= 2; j++ {
			g.Set(i, j, 255)
		}
	}
	for i := 5; i <= 6; i++ {
		for j := 4; j <= 6; j++ {
			g.Set(i, j, 255)
		}
	}
	g.Set(0, 7, 100)
	path := filepath.Join(dir, "scene.pgm")
	require.NoError(t, raster.WriteFile(path, g))
	return path
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand(BuildInfo{})
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{
		"label", "threshold", "properties", "recognize", "edges", "hough", "lines",
		"sphere", "lights", "normals", "albedo", "batch", "watch", "preview",
	} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}

func TestLabelCmd(t *testing.T) {
	dir := t.TempDir()
	in := writeScene(t, dir)
	out := filepath.Join(dir, "labels.pgm")
	preview := filepath.Join(dir, "labels.png")

	stdout, err := run(t, "label", in, out, "--preview", preview)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Number of objects: 2")

	g, err := raster.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Levels)
	assert.Equal(t, 1, g.At(2, 2))
	assert.Equal(t, 2, g.At(5, 4))
	assert.FileExists(t, preview)
}

func TestLabelCmd_ThresholdFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeScene(t, dir)

	stdout, err := run(t, "label", in, filepath.Join(dir, "labels.pgm"), "--threshold", "50")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Number of objects: 3")
}

func TestThresholdCmd(t *testing.T) {
	dir := t.TempDir()
	in := writeScene(t, dir)
	out := filepath.Join(dir, "binary.pgm")

	_, err := run(t, "threshold", in, "128", out)
	require.NoError(t, err)

	g, err := raster.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Levels)
	assert.Equal(t, 1, g.At(1, 1))
	assert.Equal(t, 0, g.At(0, 7))

	_, err = run(t, "threshold", in, "abc", out)
	assert.ErrorContains(t, err, "invalid threshold")
}

func TestPropertiesAndRecognize(t *testing.T) {
	dir := t.TempDir()
	in := writeScene(t, dir)
	labeled := filepath.Join(dir, "labels.pgm")
	db := filepath.Join(dir, "objects.txt")

	_, err := run(t, "label", in, labeled)
	require.NoError(t, err)

	stdout, err := run(t, "properties", labeled, db, filepath.Join(dir, "props.pgm"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Number of objects: 2")
	assert.FileExists(t, db)

	stdout, err = run(t, "recognize", labeled, db, filepath.Join(dir, "found.pgm"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recognized 2 of 2 objects")
}

func TestEdgesHoughLines(t *testing.T) {
	dir := t.TempDir()
	g := raster.MustGrid(20, 20)
	for i := 0; i < 20; i++ {
		for j := 10; j < 20; j++ {
			g.Set(i, j, 200)
		}
	}
	in := filepath.Join(dir, "step.pgm")
	require.NoError(t, raster.WriteFile(in, g))

	edgesOut := filepath.Join(dir, "edges.pgm")
	_, err := run(t, "edges", in, edgesOut)
	require.NoError(t, err)
	_, err = run(t, "edges", in, filepath.Join(dir, "lap.pgm"), "--laplacian")
	require.NoError(t, err)

	binary := filepath.Join(dir, "binary.pgm")
	_, err = run(t, "threshold", edgesOut, "100", binary)
	require.NoError(t, err)

	houghOut := filepath.Join(dir, "hough.pgm")
	stdout, err := run(t, "hough", binary, houghOut)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Maximum votes:")

	linesOut := filepath.Join(dir, "lines.pgm")
	clipped := filepath.Join(dir, "clipped.pgm")
	stdout, err = run(t, "lines", in, houghOut, "250", linesOut, "--edges-out", clipped)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Number of lines:")
	assert.FileExists(t, linesOut)
	assert.FileExists(t, clipped)
}

func TestSphereCmd(t *testing.T) {
	dir := t.TempDir()
	g := raster.MustGrid(10, 10)
	for i := 2; i <= 6; i++ {
		for j := 3; j <= 7; j++ {
			g.Set(i, j, 200)
		}
	}
	in := filepath.Join(dir, "sphere.pgm")
	require.NoError(t, raster.WriteFile(in, g))
	params := filepath.Join(dir, "sphere.txt")

	_, err := run(t, "sphere", in, "100", params)
	require.NoError(t, err)

	data, err := os.ReadFile(params)
	require.NoError(t, err)
	assert.Equal(t, "4.000000 5.000000 2.000000\n", string(data))
}

func TestAlbedoAndNormalsCmd(t *testing.T) {
	dir := t.TempDir()
	lights := filepath.Join(dir, "lights.txt")
	require.NoError(t, os.WriteFile(lights, []byte("100 0 0\n0 100 0\n0 0 100\n"), 0o644))

	var paths []string
	for k := 0; k < 3; k++ {
		g := raster.MustGrid(12, 12)
		g.Fill(100)
		p := filepath.Join(dir, "img"+string(rune('1'+k))+".pgm")
		require.NoError(t, raster.WriteFile(p, g))
		paths = append(paths, p)
	}

	albedo := filepath.Join(dir, "albedo.pgm")
	_, err := run(t, append(append([]string{"albedo", lights}, paths...), "85", albedo)...)
	require.NoError(t, err)
	out, err := raster.ReadFile(albedo)
	require.NoError(t, err)
	assert.Equal(t, 255, out.At(6, 6))

	normals := filepath.Join(dir, "normals.pgm")
	_, err = run(t, append(append([]string{"normals", lights}, paths...), "5", "85", normals)...)
	require.NoError(t, err)
	out, err = raster.ReadFile(normals)
	require.NoError(t, err)
	assert.Equal(t, 255, out.At(5, 5))
	assert.Equal(t, 0, out.At(4, 4))
}

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir)
	manifest := filepath.Join(dir, "batch.toml")
	require.NoError(t, os.WriteFile(manifest, []byte(`
[defaults]
output_dir = "out"

[[job]]
input = "scene.pgm"
`), 0o644))

	stdout, err := run(t, "batch", manifest, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 labeled, 0 failed")
	assert.FileExists(t, filepath.Join(dir, "out", "scene.labels.pgm"))
}

func TestPreviewCmd(t *testing.T) {
	dir := t.TempDir()
	in := writeScene(t, dir)
	out := filepath.Join(dir, "scene.png")

	_, err := run(t, "preview", in, out, "--scale", "2")
	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeScene(t, dir)
	cfg := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("threshold: 50\n"), 0o644))

	stdout, err := run(t, "--config", cfg, "label", in, filepath.Join(dir, "l.pgm"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "Number of objects: 3")

	_, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "label", in, filepath.Join(dir, "l.pgm"))
	assert.Error(t, err)
}

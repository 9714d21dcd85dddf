package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alcyxob/painrelief/internal/anatomy"
	"alcyxob/painrelief/internal/domain"
)

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRegionsCommand(t *testing.T) {
	out, err := run(t, RegionsCmd())
	if err != nil {
		t.Fatalf("regions: %v", err)
	}
	for _, r := range domain.AllRegions() {
		if !strings.Contains(out, string(r)) {
			t.Errorf("output missing %s", r)
		}
	}
	if !strings.Contains(out, "adjacency is symmetric") {
		t.Errorf("expected symmetric adjacency, got:\n%s", out)
	}
}

func TestRecommendCommand(t *testing.T) {
	out, err := run(t, RecommendCmd(), "--region", "neck", "--intensity", "3")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !strings.Contains(out, "neck-stretch-1") {
		t.Errorf("output missing neck-stretch-1:\n%s", out)
	}

	if _, err := run(t, RecommendCmd(), "--region", "tail"); err == nil {
		t.Error("expected an error for an unknown region")
	}
	if _, err := run(t, RecommendCmd()); err == nil {
		t.Error("expected an error without --region")
	}
}

func TestMeshCommandWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figure.png")
	out, err := run(t, MeshCmd(), "--png", path, "--width", "80", "--height", "120")
	if err != nil {
		t.Fatalf("mesh: %v", err)
	}
	if !strings.Contains(out, "foot_right") {
		t.Errorf("part listing missing foot_right:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("file is not a PNG")
	}
}

func TestPickCommand(t *testing.T) {
	scene, err := anatomy.Build()
	if err != nil {
		t.Fatal(err)
	}
	h, _ := scene.HandleOf(domain.RegionHead)
	part, _ := scene.Part(h)
	x, y, _, err := scene.Camera().Project(part.Position)
	if err != nil {
		t.Fatal(err)
	}

	out, err := run(t, PickCmd(), "--x", fmt.Sprint(x), "--y", fmt.Sprint(y))
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if !strings.Contains(out, "head") {
		t.Errorf("expected head, got %q", out)
	}

	out, err = run(t, PickCmd(), "--x", "0", "--y", "0")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if !strings.Contains(out, "nothing selectable") {
		t.Errorf("expected a miss, got %q", out)
	}
}

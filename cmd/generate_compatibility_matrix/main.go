package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/anaskhan96/soup"
	"github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"

	"github.com/portablesource/portablesource/pkg/plan"
)

const previousVersionsURL = "https://pytorch.org/get-started/previous-versions/"

// minRows rejects pages that parsed to almost nothing.
const minRows = 5

func main() {
	torchOutputPath := flag.String("torch-output", "", "PyTorch output path")
	minTorch := flag.String("min-torch", "2.3.0", "Oldest torch version to include")
	flag.Parse()

	if *torchOutputPath == "" {
		log.Fatal("-torch-output must be provided")
	}
	if err := writeTorchCompatibilityMatrix(*torchOutputPath, *minTorch); err != nil {
		log.Fatalf("Failed to write PyTorch compatibility matrix: %s", err)
	}
}

func writeTorchCompatibilityMatrix(outputPath string, minTorch string) error {
	log.Infof("Writing PyTorch compatibility matrix to %s...", outputPath)

	resp, err := soup.Get(previousVersionsURL)
	if err != nil {
		return fmt.Errorf("Failed to download %s: %w", previousVersionsURL, err)
	}
	doc := soup.HTMLParse(resp)

	compats := []plan.TorchCompatibility{}
	for _, h5 := range doc.FindAll("h5") {
		if strings.TrimSpace(h5.Text()) != "Linux and Windows" {
			continue
		}
		code := h5.FindNextElementSibling().Find("code")
		if code.Error != nil {
			continue
		}
		parsed, err := parsePreviousTorchVersionsCode(code.FullText())
		if err != nil {
			return err
		}
		compats = append(compats, parsed...)
	}

	compats, err = filterAndSort(compats, minTorch)
	if err != nil {
		return err
	}
	if err := checkMatrix(compats); err != nil {
		return err
	}

	data, err := json.MarshalIndent(compats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, append(data, '\n'), 0o644)
}

// parsePreviousTorchVersionsCode reads the pip commands of one release, e.g.
//
//	# CUDA 12.1
//	pip install torch==2.4.0 torchvision==0.19.0 torchaudio==2.4.0 --index-url https://download.pytorch.org/whl/cu121
//
// CPU builds are recorded against the default index. ROCm builds are skipped.
func parsePreviousTorchVersionsCode(code string) ([]plan.TorchCompatibility, error) {
	compats := []plan.TorchCompatibility{}
	heading := ""
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			heading = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			continue
		}
		if !strings.HasPrefix(line, "pip install ") {
			// conda install etc
			continue
		}

		var cuda *string
		switch {
		case strings.HasPrefix(heading, "CUDA "):
			c := strings.Fields(heading)[1]
			cuda = &c
		case strings.HasPrefix(heading, "CPU"):
		default:
			continue
		}

		compat, err := parseTorchInstallString(line, cuda)
		if err != nil {
			return nil, err
		}
		compats = append(compats, *compat)
	}
	return compats, nil
}

func parseTorchInstallString(s string, cuda *string) (*plan.TorchCompatibility, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "pip install ")
	libs, indexURL := s, ""
	for _, opt := range []string{" --index-url ", " --extra-index-url ", " -f "} {
		if before, after, ok := strings.Cut(s, opt); ok {
			libs, indexURL = before, strings.TrimSpace(after)
			break
		}
	}
	if cuda == nil {
		indexURL = ""
	}

	compat := &plan.TorchCompatibility{IndexURL: indexURL, CUDA: cuda}
	for _, lib := range strings.Fields(libs) {
		name, ver, ok := strings.Cut(lib, "==")
		if !ok {
			return nil, fmt.Errorf("Unpinned library in %q", s)
		}
		ver, _, _ = strings.Cut(ver, "+")
		switch name {
		case "torch":
			compat.Torch = ver
		case "torchvision":
			compat.Torchvision = ver
		case "torchaudio":
			compat.Torchaudio = ver
		default:
			return nil, fmt.Errorf("Unknown library: %s", name)
		}
	}
	if compat.Torch == "" || compat.Torchvision == "" {
		return nil, fmt.Errorf("Missing torch or torchvision version in %q", s)
	}
	return compat, nil
}

// filterAndSort drops rows older than minTorch and duplicates, then orders them newest torch
// first and, within a torch version, newest CUDA first with the default-index row last.
func filterAndSort(compats []plan.TorchCompatibility, minTorch string) ([]plan.TorchCompatibility, error) {
	minVersion, err := version.NewVersion(minTorch)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []plan.TorchCompatibility{}
	for _, c := range compats {
		v, err := version.NewVersion(c.Torch)
		if err != nil {
			return nil, err
		}
		key := c.Torch + "/" + cudaString(c.CUDA)
		if v.LessThan(minVersion) || seen[key] || c.Torchaudio == "" {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := version.Must(version.NewVersion(out[i].Torch)), version.Must(version.NewVersion(out[j].Torch))
		if !vi.Equal(vj) {
			return vi.GreaterThan(vj)
		}
		ci, cj := out[i].CUDA, out[j].CUDA
		if ci == nil || cj == nil {
			return cj == nil && ci != nil
		}
		return version.Must(version.NewVersion(*ci)).GreaterThan(version.Must(version.NewVersion(*cj)))
	})
	return out, nil
}

// checkMatrix is a sanity check against changes to the previous versions page. Every torch
// version needs a default-index row, it is what non-NVIDIA plans install.
func checkMatrix(compats []plan.TorchCompatibility) error {
	if len(compats) < minRows {
		return fmt.Errorf("PyTorch compatibility matrix only had %d rows, has the html changed?", len(compats))
	}
	defaults := map[string]bool{}
	for _, c := range compats {
		defaults[c.Torch] = defaults[c.Torch] || c.CUDA == nil
	}
	for torch, ok := range defaults {
		if !ok {
			return fmt.Errorf("PyTorch %s has no CPU build, has the html changed?", torch)
		}
	}
	return nil
}

func cudaString(cuda *string) string {
	if cuda == nil {
		return "none"
	}
	return *cuda
}

package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"taskml/internal/driver"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

var inlineSeeds = []string{
	"",
	"[ ] a\n",
	"[~] Build API #p1 ~2h @alice #backend !2025-03-01 ^api\n",
	"[ ] a\n  [x] b\n    [ ] c\n  [ ] d\n",
	"[ ] a\n  ✓ works\n  evidence: ci\n  ✗ slow\n",
	"[ ] deploy\n  depends: ^build, ^test\n  blocked-by:\n",
	"== Backend ==\n[ ] a\n=== Frontend ===\n",
	"---view:kanban group=status title=\"Board\"\n",
	"---context\n{\"a\": 1}\n---\n",
	"---handoff\nfrom: a\nto: b\ncontext: {\"x\":\n  1}\n---\n",
	"```\nunterminated\n",
	"\t [ ] mixed\n",
	"[ ] a\n      [ ] deep\n  [ ] odd\n",
	"[ ] \\#escaped \\^not-id\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все файлы задач
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !driver.HasTaskExtension(path) {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

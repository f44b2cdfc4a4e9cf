package texprinter_test

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// containsPDFMarker checks if the given bytes contain the PDF magic marker
func containsPDFMarker(data []byte) bool {
	return bytes.Contains(data, []byte("%PDF"))
}

func buildBinary(t *testing.T) string {
	t.Helper()
	binary := filepath.Join(t.TempDir(), "texprinter")
	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/texprinter")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, out)
	}
	return binary
}

func imageHost(t *testing.T) *httptest.Server {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 640, 120))); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img/duck.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runBinary(t *testing.T, binary string, timeout time.Duration, args ...string) error {
	t.Helper()
	cmd := exec.Command(binary, args...)
	done := make(chan error, 1)
	go func() {
		done <- cmd.Run()
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		cmd.Process.Kill()
		t.Fatalf("Conversion timed out after %v", timeout)
	}
	return nil
}

func TestE2EConversions(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := buildBinary(t)
	srv := imageHost(t)

	testCases := []struct {
		name      string
		format    string
		extraArgs []string
		marker    string
	}{
		{name: "PDF", format: "pdf", marker: "%PDF"},
		{name: "TeX", format: "tex", marker: `\includegraphics[scale=0.5]{duck.png}`},
		{name: "TeX literal images", format: "tex", extraArgs: []string{"--image-rewrite", "literal"}, marker: `\begin{TeXPrinterListing}`},
		{name: "PDF text icons", format: "pdf", extraArgs: []string{"--text-icons", "--debug"}, marker: "%PDF"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			outputFile := filepath.Join(dir, "1319."+tc.format)
			args := []string{
				"-q", "testdata/question.yaml",
				"-f", tc.format,
				"-o", outputFile,
				"--base-url", srv.URL,
				"--image-dir", dir,
			}
			args = append(args, tc.extraArgs...)
			if err := runBinary(t, binary, 15*time.Second, args...); err != nil {
				t.Fatalf("Conversion failed: %v", err)
			}

			data, err := os.ReadFile(outputFile)
			if err != nil {
				t.Fatalf("Output file not created: %v", err)
			}
			if len(data) == 0 {
				t.Fatalf("Output file is empty")
			}
			if tc.format == "pdf" && !containsPDFMarker(data) {
				t.Fatalf("Output does not contain PDF marker")
			}
			if !bytes.Contains(data, []byte(tc.marker)) {
				t.Fatalf("Output does not contain %q", tc.marker)
			}
			// the beak is missing on the server and replaced by the placeholder
			for _, name := range []string{"duck.png", "beak.png"} {
				if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
					t.Fatalf("Image %s not downloaded: %v", name, err)
				}
			}
			t.Logf("✓ Generated %s (%d bytes)", outputFile, len(data))
		})
	}
}

func TestE2EDefaultOutputName(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := buildBinary(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	question := filepath.Join(dir, "q.yaml")
	if err := os.WriteFile(question, []byte("id: \"77\"\nquestion:\n  title: T\n  body: <p>b</p>\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(binary, "-f", "tex", question)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Conversion failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "77.tex")); err != nil {
		t.Fatalf("Expected 77.tex: %v", err)
	}
	if _, err := os.Stat(filepath.Join(wd, "77.tex")); err == nil {
		t.Fatalf("Output written to the wrong directory")
	}
}

func TestE2EErrorHandling(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := buildBinary(t)
	dir := t.TempDir()

	testCases := []struct {
		name       string
		args       []string
		shouldFail bool
	}{
		{
			name:       "Non-existent question file",
			args:       []string{"-q", "non-existent-file.yaml", "-o", filepath.Join(dir, "a.pdf")},
			shouldFail: true,
		},
		{
			name:       "Invalid question id",
			args:       []string{"-q", "testdata/question.yaml", "--id", "13a", "-o", filepath.Join(dir, "b.pdf")},
			shouldFail: true,
		},
		{
			name:       "Unknown format",
			args:       []string{"-q", "testdata/question.yaml", "-f", "docx", "-o", filepath.Join(dir, "c.docx")},
			shouldFail: true,
		},
		{
			name:       "Version",
			args:       []string{"--version"},
			shouldFail: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := exec.Command(binary, tc.args...)
			out, err := cmd.CombinedOutput()

			if tc.shouldFail && err == nil {
				t.Fatalf("Expected command to fail, but it succeeded")
			}
			if !tc.shouldFail && err != nil {
				t.Fatalf("Expected command to succeed, but it failed: %v", err)
			}
			if tc.shouldFail && !strings.Contains(string(out), "error:") {
				t.Fatalf("Expected an error message, got %q", out)
			}
			t.Logf("✓ Error handling validated")
		})
	}
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestAsmCmdWritesBytecodeFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.asm")
	if err := os.WriteFile(src, []byte("load $0 #500\nhlt"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out := filepath.Join(dir, "prog.bin")
	asmOut = out
	defer func() { asmOut = "" }()

	var stdout bytes.Buffer
	asmCmd.SetOut(&stdout)
	if err := asmCmd.RunE(asmCmd, []string{src}); err != nil {
		t.Fatalf("RunE: %v", err)
	}

	bs, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := []byte{0x01, 0x00, 0x01, 0xF4, 0x00}
	if !bytes.Equal(bs, want) {
		t.Fatalf("got % X, want % X", bs, want)
	}
}

func TestAsmCmdRejectsMissingFile(t *testing.T) {
	asmOut = ""
	if err := asmCmd.RunE(asmCmd, []string{"/nonexistent/path.asm"}); err == nil {
		t.Fatalf("expected an error for a missing input file")
	}
}

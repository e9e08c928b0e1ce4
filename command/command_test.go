package command

import (
	"strings"
	"testing"

	"github.com/rcornwell/memsim/internal/access"
)

func TestParseReadInstruction(t *testing.T) {
	cmd, err := Parse("R I @0x0000000000001000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Order != Read || cmd.Access != access.Instruction || cmd.DataSize != 4 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if cmd.Vaddr != 0x1000 {
		t.Errorf("expected vaddr 0x1000, got %#x", cmd.Vaddr)
	}
}

func TestParseWriteWord(t *testing.T) {
	cmd, err := Parse("W DW 0xDEADBEEF @0x0000000000002000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Order != Write || cmd.Access != access.Data || cmd.DataSize != 4 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if cmd.WriteVal != 0xDEADBEEF {
		t.Errorf("expected 0xDEADBEEF, got %#x", cmd.WriteVal)
	}
}

func TestParseWriteByte(t *testing.T) {
	cmd, err := Parse("W DB 0xAB @0x0000000000002001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.DataSize != 1 {
		t.Errorf("expected byte size, got %d", cmd.DataSize)
	}
}

func TestParseWriteInstructionRejected(t *testing.T) {
	if _, err := Parse("W I @0x0000000000001000"); err == nil {
		t.Fatal("expected error for write+instruction combination")
	}
}

func TestParseUnalignedWordRejected(t *testing.T) {
	if _, err := Parse("R DW @0x0000000000001001"); err == nil {
		t.Fatal("expected error for unaligned word address")
	}
}

func TestParseBadAddressDigitCount(t *testing.T) {
	if _, err := Parse("R DW @0x1000"); err == nil {
		t.Fatal("expected error for short address token")
	}
}

func TestParseUnknownOrder(t *testing.T) {
	if _, err := Parse("X DW @0x0000000000001000"); err == nil {
		t.Fatal("expected error for unknown order token")
	}
}

func TestParseScriptSkipsBlankAndComments(t *testing.T) {
	script := strings.NewReader(strings.Join([]string{
		"# a comment",
		"",
		"R I @0x0000000000001000",
		"W DB 0x01 @0x0000000000001004",
	}, "\n"))

	cmds, err := ParseScript(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"solitaire-cipher/internal/cards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestEncryptDecryptSorted(t *testing.T) {
	out, err := run(t, "", "encrypt", "--sorted", "--text", "Code in Ruby, live longer!")
	require.NoError(t, err)
	assert.Equal(t, "GLNCQ MJAFF FVOMB JIYCB", out)

	out, err = run(t, "CLEPK HHNIY CFPWH FDFEH\n", "decrypt", "--sorted")
	require.NoError(t, err)
	assert.Equal(t, "YOURC IPHER ISWOR KINGX", out)
}

func TestDeckFileRoundTrip(t *testing.T) {
	out, err := run(t, "", "deck")
	require.NoError(t, err)
	_, err = cards.ParseDeck(out)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.deck")
	require.NoError(t, os.WriteFile(path, []byte(out+"\n"), 0o600))

	ct, err := run(t, "", "encrypt", "--deck", path, "--text", "attack at dawn")
	require.NoError(t, err)
	pt, err := run(t, ct, "decrypt", "--deck", path)
	require.NoError(t, err)
	assert.Equal(t, "ATTAC KATDA WNXXX", pt)
}

func TestDeckOrders(t *testing.T) {
	out, err := run(t, "", "deck", "--order", "descending")
	require.NoError(t, err)
	assert.Equal(t, cards.NewSortedDeck(false).String(), out)

	_, err = run(t, "", "deck", "--order", "riffle")
	assert.Error(t, err)
}

func TestKeystream(t *testing.T) {
	out, err := run(t, "", "keystream", "--sorted", "-n", "10")
	require.NoError(t, err)
	assert.Equal(t, "4 49 10 24 8 51 44 6 4 33", out)
}

func TestDeckFlagsRequired(t *testing.T) {
	_, err := run(t, "", "encrypt", "--text", "hi")
	assert.Error(t, err)

	_, err = run(t, "", "encrypt", "--sorted", "--deck", "x", "--text", "hi")
	assert.Error(t, err)

	_, err = run(t, "", "encrypt", "--deck", filepath.Join(t.TempDir(), "missing"), "--text", "hi")
	assert.Error(t, err)
}

func TestDecryptRejectsBadInput(t *testing.T) {
	_, err := run(t, "", "decrypt", "--sorted", "--text", "GLNCQ-MJAFF")
	assert.Error(t, err)
}

func TestDecryptMultilineStdin(t *testing.T) {
	out, err := run(t, "CLEPK HHNIY\r\nCFPWH\tFDFEH\n\n", "decrypt", "--sorted")
	require.NoError(t, err)
	assert.Equal(t, "YOURC IPHER ISWOR KINGX", out)
}

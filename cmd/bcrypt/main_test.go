package main

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xbcrypt "golang.org/x/crypto/bcrypt"

	"github.com/hasbyte1/go-bcrypt/hashing"
)

const (
	abcSalt = "$2a$06$If6bvum7DFjUnE9p2uDeDu"
	abcHash = "$2a$06$If6bvum7DFjUnE9p2uDeDu0YHzrHM6tf.iqN8.yx.jNN1ILEf7h0i"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSaltCmd(t *testing.T) {
	out, _, err := run(t, "", "salt", "--cost", "5")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\$2a\$05\$[./A-Za-z0-9]{22}\n$`), out)
}

func TestSaltCmd_Revision(t *testing.T) {
	out, _, err := run(t, "", "salt", "--cost", "4", "--revision", "2b")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "$2b$04$"), out)
}

func TestSaltCmd_CostFromEnv(t *testing.T) {
	t.Setenv("BCRYPT_COST", "7")
	out, _, err := run(t, "", "salt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "$2a$07$"), out)
}

func TestSaltCmd_ClampsCost(t *testing.T) {
	out, _, err := run(t, "", "salt", "--cost", "3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "$2a$04$"), out)

	out, _, err = run(t, "", "salt", "--cost", "40")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "$2a$31$"), out)
}

func TestSaltCmd_ClampsCostFromEnv(t *testing.T) {
	t.Setenv("BCRYPT_COST", "2")
	out, _, err := run(t, "", "salt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "$2a$04$"), out)
}

func TestHashCmd_ClampsCost(t *testing.T) {
	out, _, err := run(t, "", "hash", "--cost=-1", "pw")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"), hash)
	assert.NoError(t, xbcrypt.CompareHashAndPassword([]byte(hash), []byte("pw")))
}

func TestRootCmd_InvalidSettings(t *testing.T) {
	_, _, err := run(t, "", "salt", "--revision", "3a")
	assert.ErrorIs(t, err, hashing.ErrInvalidOption)

	_, _, err = run(t, "", "salt", "--log-format", "xml")
	assert.Error(t, err)
}

func TestHashCmd_WithSalt(t *testing.T) {
	out, _, err := run(t, "", "hash", "--salt", abcSalt, "abc")
	require.NoError(t, err)
	assert.Equal(t, abcHash+"\n", out)
}

func TestHashCmd_GeneratedSalt(t *testing.T) {
	out, _, err := run(t, "", "hash", "--cost", "4", "hunter2")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))
	assert.NoError(t, xbcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))
}

func TestHashCmd_Progress(t *testing.T) {
	out, errOut, err := run(t, "", "hash", "--progress", "--salt", abcSalt, "abc")
	require.NoError(t, err)
	assert.Equal(t, abcHash+"\n", out)
	assert.Contains(t, errOut, "100%")
}

func TestHashCmd_Stdin(t *testing.T) {
	passwords := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	out, _, err := run(t, strings.Join(passwords, "\n")+"\n", "hash", "--stdin", "--cost", "4", "--parallel", "2")
	require.NoError(t, err)

	hashes := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, hashes, len(passwords))
	for i, h := range hashes {
		assert.NoError(t, xbcrypt.CompareHashAndPassword([]byte(h), []byte(passwords[i])), "line %d", i+1)
	}
}

func TestHashCmd_ArgumentErrors(t *testing.T) {
	_, _, err := run(t, "", "hash")
	assert.ErrorContains(t, err, "--stdin is required")

	_, _, err = run(t, "x\n", "hash", "--stdin", "pw")
	assert.ErrorContains(t, err, "cannot be combined")

	_, _, err = run(t, "", "hash", "--salt", "$2a$06$bad", "pw")
	assert.Error(t, err)
}

func TestCompareCmd(t *testing.T) {
	out, _, err := run(t, "", "compare", "abc", abcHash)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, _, err = run(t, "", "compare", "abd", abcHash)
	assert.ErrorIs(t, err, errMismatch)
	assert.Equal(t, "false\n", out)

	// A bcrypt-shaped but malformed hash is a mismatch.
	out, _, err = run(t, "", "compare", "abc", abcHash[:59])
	assert.ErrorIs(t, err, errMismatch)
	assert.Equal(t, "false\n", out)
}

func TestCompareCmd_UnrecognisedHash(t *testing.T) {
	for _, args := range [][]string{
		{"compare", "abc", "not-a-hash"},
		{"compare", "--progress", "abc", "not-a-hash"},
	} {
		out, _, err := run(t, "", args...)
		assert.ErrorIs(t, err, hashing.ErrInvalidHash, args)
		assert.Empty(t, out)
	}
}

func TestCompareCmd_LogsRehash(t *testing.T) {
	_, errOut, err := run(t, "", "compare", "--log-level", "info", "abc", abcHash)
	require.NoError(t, err)
	assert.Contains(t, errOut, "does not match the configured cost")

	_, errOut, err = run(t, "", "compare", "--log-level", "info", "--cost", "6", "abc", abcHash)
	require.NoError(t, err)
	assert.NotContains(t, errOut, "does not match the configured cost")
}

func TestCompareCmd_Progress(t *testing.T) {
	out, errOut, err := run(t, "", "compare", "--progress", "abc", abcHash)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
	assert.Contains(t, errOut, "100%")
}

func TestCostCmd(t *testing.T) {
	out, _, err := run(t, "", "cost", abcHash)
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)

	_, _, err = run(t, "", "cost", "nope")
	assert.Error(t, err)
}

func TestInfoCmd(t *testing.T) {
	out, _, err := run(t, "", "info", abcHash)
	require.NoError(t, err)
	assert.Equal(t, "driver: bcrypt\nversion: 2a\ncost: 6\nsalt: "+abcSalt+"\nneeds-rehash: true\n", out)

	out, _, err = run(t, "", "info", "--cost", "6", abcHash)
	require.NoError(t, err)
	assert.Contains(t, out, "needs-rehash: false")

	_, _, err = run(t, "", "info", "plain-text")
	assert.Error(t, err)
}

package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColonPlain(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf, false)
	o.Colon("Reading existing database...")
	require.Equal(t, ":: Reading existing database...\n", buf.String())
}

func TestPrintf(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf, false)
	o.Printf("ADDING: %s-%s\n", "foo", "1.0-1")
	require.Equal(t, "ADDING: foo-1.0-1\n", buf.String())
}

func TestColonColored(t *testing.T) {
	var buf bytes.Buffer
	o := New(&buf, true)
	o.Colon("hi")
	require.Contains(t, buf.String(), "hi")
	require.Contains(t, buf.String(), "\033[")
}

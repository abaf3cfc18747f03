package netrc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const netrcFile = `machine github.com
  login builder
  password s3cret

machine gitlab.example.com login ci password token
default login anonymous password none
`

func TestAuthForURL(t *testing.T) {
	n, err := Parse(strings.NewReader(netrcFile))
	require.NoError(t, err)

	auth := n.AuthForURL("https://github.com/tianocore/edk2.git")
	require.NotNil(t, auth)
	assert.Equal(t, "builder", auth.Username)
	assert.Equal(t, "s3cret", auth.Password)

	auth = n.AuthForURL("https://gitlab.example.com:8443/fw/fsp.git")
	require.NotNil(t, auth)
	assert.Equal(t, "ci", auth.Username)
	assert.Equal(t, "token", auth.Password)

	assert.Nil(t, n.AuthForURL("https://bitbucket.org/x.git"))
	assert.Nil(t, n.AuthForURL("git@github.com:tianocore/edk2.git"))
	assert.Nil(t, n.AuthForURL("ssh://github.com/tianocore/edk2.git"))
}

func TestNilNetrc(t *testing.T) {
	var n *Netrc
	assert.Nil(t, n.AuthForURL("https://github.com/tianocore/edk2.git"))
}

package entrypoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSRFSecret(t *testing.T) {
	assert.Nil(t, csrfSecret(""))
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, csrfSecret("deadbeef"))
	assert.Equal(t, []byte("not-hex-secret"), csrfSecret("not-hex-secret"))
}

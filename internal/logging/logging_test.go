package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(os.Stderr, false) })

	var buf bytes.Buffer
	Configure(&buf, false)
	assert.Equal(t, logrus.InfoLevel, logg.GetLevel())

	For("export").Debug("hidden")
	assert.Empty(t, buf.String())

	For("export").WithField("records", 3).Info("export written")
	assert.Contains(t, buf.String(), `msg="export written"`)
	assert.Contains(t, buf.String(), "cmd=export")
	assert.Contains(t, buf.String(), "records=3")

	buf.Reset()
	Configure(&buf, true)
	For("report").Debug("visible")
	assert.Contains(t, buf.String(), "level=debug")
}

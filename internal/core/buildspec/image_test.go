package buildspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conformingImage() ImageConfig {
	return ImageConfig{
		ExposedPorts: []string{"5000/tcp"},
		Cmd:          []string{"/app/volunteer"},
		WorkingDir:   "/app",
	}
}

func TestCheckImage_Conforming(t *testing.T) {
	assert.Empty(t, CheckImage(conformingImage(), Default()))
}

func TestCheckImage_WrongPort(t *testing.T) {
	img := conformingImage()
	img.ExposedPorts = []string{"8080/tcp"}

	problems := CheckImage(img, Default())
	require.Len(t, problems, 1)
	assert.Equal(t, "ExposedPorts", problems[0].Subject)
}

func TestCheckImage_ExtraPort(t *testing.T) {
	img := conformingImage()
	img.ExposedPorts = []string{"5000/tcp", "5001/tcp"}

	problems := CheckImage(img, Default())
	require.Len(t, problems, 1)
	assert.Equal(t, "ExposedPorts", problems[0].Subject)
}

func TestCheckImage_NoPorts(t *testing.T) {
	img := conformingImage()
	img.ExposedPorts = nil

	problems := CheckImage(img, Default())
	require.Len(t, problems, 1)
}

func TestCheckImage_CommandWithArguments(t *testing.T) {
	img := conformingImage()
	img.Cmd = []string{"/app/volunteer", "-config", "x.yaml"}

	problems := CheckImage(img, Default())
	require.Len(t, problems, 1)
	assert.Equal(t, "Cmd", problems[0].Subject)
}

func TestCheckImage_EntrypointSet(t *testing.T) {
	img := conformingImage()
	img.Entrypoint = []string{"/bin/sh", "-c"}

	problems := CheckImage(img, Default())
	require.Len(t, problems, 1)
	assert.Equal(t, "Entrypoint", problems[0].Subject)
}

func TestCheckImage_WrongWorkDir(t *testing.T) {
	img := conformingImage()
	img.WorkingDir = "/"

	problems := CheckImage(img, Default())
	require.Len(t, problems, 1)
	assert.Equal(t, "WorkingDir", problems[0].Subject)
}

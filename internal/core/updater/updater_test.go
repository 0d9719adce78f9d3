package updater

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformAssetName(t *testing.T) {
	assert.Equal(t, "animelink_"+runtime.GOOS+"_"+runtime.GOARCH, PlatformAssetName())
}

func TestCurrentVersionHasNoPrefix(t *testing.T) {
	assert.NotEmpty(t, CurrentVersion())
	assert.NotEqual(t, byte('v'), CurrentVersion()[0])
}

func TestUpdateWithoutNewerRelease(t *testing.T) {
	assert.NoError(t, Update(context.Background(), nil))
	assert.NoError(t, Update(context.Background(), &Check{Current: "1.0.0", Latest: "1.0.0"}))
}

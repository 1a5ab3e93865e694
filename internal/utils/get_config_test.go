package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigFallsBackToDefaults(t *testing.T) {
	SetConfig("IMAGE_COST", "")
	assert.Equal(t, "5", GetConfig("IMAGE_COST"))
	assert.Equal(t, 5, GetConfigInt("IMAGE_COST"))

	SetConfig("IMAGE_COST", "7")
	assert.Equal(t, 7, GetConfigInt("IMAGE_COST"))

	SetConfig("IMAGE_COST", "seven")
	assert.Equal(t, 5, GetConfigInt("IMAGE_COST"))
	SetConfig("IMAGE_COST", "")
}

func TestGetConfigUnknownKey(t *testing.T) {
	assert.Equal(t, "", GetConfig("NOT_A_KEY"))
}

func TestGetConfigList(t *testing.T) {
	SetConfig("PROXY_IMAGE_HOSTS", " api.a4f.co, ,a4f.co ")
	assert.Equal(t, []string{"api.a4f.co", "a4f.co"}, GetConfigList("PROXY_IMAGE_HOSTS"))
	SetConfig("PROXY_IMAGE_HOSTS", "")
	assert.Equal(t, []string{"api.a4f.co", "a4f.co"}, GetConfigList("PROXY_IMAGE_HOSTS"))
}

func TestGetConfigBool(t *testing.T) {
	SetConfig("PAD_SHORT_BATCH", "")
	assert.True(t, GetConfigBool("PAD_SHORT_BATCH"))
	SetConfig("PAD_SHORT_BATCH", "false")
	assert.False(t, GetConfigBool("PAD_SHORT_BATCH"))
	SetConfig("PAD_SHORT_BATCH", "")
}

func TestPhoneValidation(t *testing.T) {
	InitValidator()

	type req struct {
		Phone string `validate:"phone"`
	}
	assert.NoError(t, Validate.Struct(req{Phone: ""}))
	assert.NoError(t, Validate.Struct(req{Phone: "9876543210"}))
	assert.NoError(t, Validate.Struct(req{Phone: "+919876543210"}))
	assert.Error(t, Validate.Struct(req{Phone: "12ab"}))
}

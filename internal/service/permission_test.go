package service

import (
	"errors"
	"testing"

	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize_ExactScopes(t *testing.T) {
	granted := []apikey.Scope{apikey.ScopeKeywordsRead, apikey.ScopeRankingsRead}

	assert.NoError(t, Authorize(granted, apikey.ScopeKeywordsRead))
	assert.NoError(t, Authorize(granted, apikey.ScopeKeywordsRead, apikey.ScopeRankingsRead))
}

func TestAuthorize_NoRequirements(t *testing.T) {
	assert.NoError(t, Authorize(nil))
	assert.NoError(t, Authorize([]apikey.Scope{apikey.ScopeKeywordsRead}))
}

func TestAuthorize_AdminWildcard(t *testing.T) {
	granted := []apikey.Scope{apikey.ScopeAdminFull}

	assert.NoError(t, Authorize(granted, apikey.ScopeKeywordsRead))
	assert.NoError(t, Authorize(granted, apikey.ScopeDataImport, apikey.ScopeRankingsWrite))
	assert.NoError(t, Authorize(granted, apikey.ScopeAdminFull))
}

func TestAuthorize_ReadDoesNotImplyWrite(t *testing.T) {
	granted := []apikey.Scope{apikey.ScopeKeywordsRead}

	err := Authorize(granted, apikey.ScopeKeywordsWrite)

	require.Error(t, err)
	var missingErr *MissingScopesError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []apikey.Scope{apikey.ScopeKeywordsWrite}, missingErr.Missing)
}

func TestAuthorize_CollectsAllMissingScopes(t *testing.T) {
	granted := []apikey.Scope{apikey.ScopeKeywordsRead}

	err := Authorize(granted, apikey.ScopeKeywordsWrite, apikey.ScopeRankingsWrite)

	require.Error(t, err)
	var missingErr *MissingScopesError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, []apikey.Scope{apikey.ScopeKeywordsWrite, apikey.ScopeRankingsWrite}, missingErr.Missing)
	assert.Contains(t, err.Error(), "keywords:write")
	assert.Contains(t, err.Error(), "rankings:write")
}

func TestAuthorize_EmptyGrants(t *testing.T) {
	err := Authorize(nil, apikey.ScopeKeywordsRead)

	require.Error(t, err)
}

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userhub-io/userhub-client/internal/util"
	"github.com/userhub-io/userhub-client/pkg/userhub"
)

func TestCloneSlice(t *testing.T) {
	t.Parallel()

	original := []string{"a", "b", "c"}

	clone := util.CloneSlice(original)
	clone[0] = "z"

	assert.Equal(t, []string{"a", "b", "c"}, original)
	assert.Equal(t, []string{"z", "b", "c"}, clone)

	assert.Nil(t, util.CloneSlice[string](nil))
	assert.Empty(t, util.CloneSlice([]string{}))
}

func TestCloneMap(t *testing.T) {
	t.Parallel()

	original := map[string]int{"a": 1, "b": 2}

	clone := util.CloneMap(original)
	clone["a"] = 99

	assert.Equal(t, 1, original["a"])
	assert.Equal(t, 99, clone["a"])

	assert.Nil(t, util.CloneMap[string, int](nil))
}

func TestDeepClone(t *testing.T) {
	t.Parallel()

	fullName := "Anna Dahlberg"
	original := userhub.BulkUpdateRequest{
		IDs:        []string{"user-1", "user-2"},
		UpdateData: &userhub.UserUpdateRequest{FullName: &fullName},
	}

	clone, err := util.DeepClone(original)
	require.NoError(t, err)

	*clone.UpdateData.FullName = "Someone Else"
	clone.IDs[0] = "other"

	assert.Equal(t, "Anna Dahlberg", *original.UpdateData.FullName)
	assert.Equal(t, "user-1", original.IDs[0])
}

func TestDeepClone_Unmarshalable(t *testing.T) {
	t.Parallel()

	_, err := util.DeepClone(map[string]interface{}{"fn": func() {}})
	require.Error(t, err)
}

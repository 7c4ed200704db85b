package gazelle

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"number", `123`, 123, false},
		{"quoted string", `"456"`, 456, false},
		{"zero", `0`, 0, false},
		{"garbage", `"abc"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f flexInt
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, int(f))
		})
	}
}

func TestSnatchedEntryMixedIDs(t *testing.T) {
	var page snatchedPage
	err := json.Unmarshal([]byte(`{"snatched":[{"groupId":"11","torrentId":22},{"groupId":33,"torrentId":"44"}]}`), &page)
	require.NoError(t, err)

	require.Len(t, page.Snatched, 2)
	assert.Equal(t, 11, int(page.Snatched[0].GroupID))
	assert.Equal(t, 22, int(page.Snatched[0].TorrentID))
	assert.Equal(t, 33, int(page.Snatched[1].GroupID))
	assert.Equal(t, 44, int(page.Snatched[1].TorrentID))
}

package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/healthsync/internal/normalize"
)

func TestDecodeBatch(t *testing.T) {
	payload := []byte(`{
		"user_id": "user-1",
		"records": [
			{"kind": "activity", "fields": {"dailyStepCount": 9000, "timeStamp": 1700000000000}},
			{"kind": "sleep", "fields": {"sleepId": "s-1"}}
		]
	}`)

	batch, err := DecodeBatch(payload)
	require.NoError(t, err)
	require.Equal(t, "user-1", batch.UserID)
	require.Len(t, batch.Records, 2)
	require.Equal(t, normalize.KindActivity, batch.Records[0].Kind)
	require.Equal(t, float64(9000), batch.Records[0].Fields["dailyStepCount"])
}

func TestDecodeBatchRejectsMalformed(t *testing.T) {
	_, err := DecodeBatch([]byte(`{"user_id": `))
	require.Error(t, err)
}

func TestDecodeBatchRequiresUserID(t *testing.T) {
	_, err := DecodeBatch([]byte(`{"records": []}`))
	require.Error(t, err)
}

package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/AngelCh415/verification-stats/internal/utils"
)

// GetJSONWithRetry retries transport errors and 5xx responses with
// exponential backoff. 4xx responses fail immediately.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any) error {
	b := utils.NewBackoff(100*time.Millisecond, 2)
	return b.Do(ctx, func(int) error {
		err := getJSON(ctx, c, url, dst)
		var se *StatusError
		if errors.As(err, &se) && se.Code < 500 {
			return utils.Permanent(err)
		}
		return err
	})
}

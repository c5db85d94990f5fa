package helper

import (
	"context"
	"log"
	"sort"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// ListKeys returns every object key under the service prefix.
func (s *OSSService) ListKeys(ctx context.Context) ([]string, error) {
	prefix := s.Prefix
	if prefix != "" {
		prefix += "/"
	}
	marker := oss.Marker("")
	var keys []string
	for {
		lor, err := s.Bucket.ListObjects(oss.Prefix(prefix), marker, oss.MaxKeys(1000), oss.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		for _, obj := range lor.Objects {
			if obj.Key != "" {
				keys = append(keys, obj.Key)
			}
		}
		if !lor.IsTruncated {
			break
		}
		marker = oss.Marker(lor.NextMarker)
	}
	return keys, nil
}

// KeepNewest deletes all but the newest keep objects whose keys pass match.
// Keys must sort chronologically (timestamped names do).
func (s *OSSService) KeepNewest(ctx context.Context, keep int, match func(key string) bool) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	keys, err := s.ListKeys(ctx)
	if err != nil {
		return 0, err
	}
	var candidates []string
	for _, k := range keys {
		if match == nil || match(k) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) <= keep {
		return 0, nil
	}
	sort.Sort(sort.Reverse(sort.StringSlice(candidates)))

	deleted, err := s.DeleteObjects(ctx, candidates[keep:])
	if deleted > 0 {
		log.Printf("[OSS-REAPER] deleted %d objects under %q (kept %d)", deleted, s.Prefix, keep)
	}
	return deleted, err
}

package ucloud

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pratik-mahalle/mxcloud/internal/pkg/logger"
)

func TestCollectToleratesFailedRegion(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, api := newFakeAPI(t, func(q url.Values) (int, any) {
		region := q.Get("Region")
		switch q.Get("Action") {
		case ActionDescribeUHostInstance:
			switch region {
			case "region-a":
				return http.StatusOK, ok(ActionDescribeUHostInstance, map[string]any{"UHostSet": []any{host("a-1")}})
			case "region-b":
				return http.StatusOK, map[string]any{"RetCode": 5000, "Message": "internal"}
			case "region-c":
				return http.StatusOK, ok(ActionDescribeUHostInstance, map[string]any{"UHostSet": []any{host("c-1"), host("c-2")}})
			}
		}
		return http.StatusOK, ok(q.Get("Action"), nil)
	})
	defer srv.Close()

	agg := NewAggregator(newTestClient(srv), logger.Nop())
	got, err := agg.Collect(context.Background(), testTarget, []string{"region-a", "region-b", "region-c"})
	require.NoError(t, err)

	ids := make([]string, 0, len(got.Instances))
	for _, inst := range got.Instances {
		ids = append(ids, inst.UHostID)
	}
	require.Equal(t, []string{"a-1", "c-1", "c-2"}, ids)
	require.Equal(t, []string{"region-a", "region-c"}, got.ValidRegions)
	require.Equal(t, "region-c", got.Instances[2].Region)

	// images and EIPs are never requested from regions without instances
	require.Zero(t, api.count(ActionDescribeImage, "region-b"))
	require.Zero(t, api.count(ActionDescribeEIP, "region-b"))
	require.Equal(t, 1, api.count(ActionDescribeImage, "region-a"))
	require.Equal(t, 1, api.count(ActionDescribeEIP, "region-c"))
	require.Equal(t, 3, api.count(ActionDescribeUDisk, ""))
}

func TestCollectTransportFailureInRegion(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, _ := newFakeAPI(t, func(q url.Values) (int, any) {
		if q.Get("Action") == ActionDescribeUHostInstance && q.Get("Region") == "region-b" {
			return http.StatusInternalServerError, map[string]any{}
		}
		if q.Get("Action") == ActionDescribeUHostInstance {
			return http.StatusOK, ok(ActionDescribeUHostInstance, map[string]any{"UHostSet": []any{host(q.Get("Region"))}})
		}
		return http.StatusOK, ok(q.Get("Action"), nil)
	})
	defer srv.Close()

	got, err := NewAggregator(newTestClient(srv), logger.Nop()).
		Collect(context.Background(), testTarget, []string{"region-a", "region-b", "region-c"})
	require.NoError(t, err)
	require.Len(t, got.Instances, 2)
	require.Equal(t, []string{"region-a", "region-c"}, got.ValidRegions)
}

func TestCollectDeduplicatesImagesAndEIPs(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, _ := newFakeAPI(t, func(q url.Values) (int, any) {
		region := q.Get("Region")
		switch q.Get("Action") {
		case ActionDescribeUHostInstance:
			return http.StatusOK, ok(ActionDescribeUHostInstance, map[string]any{"UHostSet": []any{host("h-" + region)}})
		case ActionDescribeImage:
			if region == "cn-bj2" {
				return http.StatusOK, ok(ActionDescribeImage, map[string]any{"ImageSet": []any{
					image("uimage-shared", "first-seen"),
					image("uimage-bj", "bj only"),
					image("", "no id"),
				}})
			}
			return http.StatusOK, ok(ActionDescribeImage, map[string]any{"ImageSet": []any{
				image("uimage-shared", "second-seen"),
				image("uimage-sh", "sh only"),
			}})
		case ActionDescribeEIP:
			return http.StatusOK, ok(ActionDescribeEIP, map[string]any{"EIPSet": []any{
				eip("eip-shared", "1.1.1.1"),
				eip("eip-"+region, "2.2.2.2"),
			}})
		}
		return http.StatusOK, ok(q.Get("Action"), nil)
	})
	defer srv.Close()

	got, err := NewAggregator(newTestClient(srv), logger.Nop()).
		Collect(context.Background(), testTarget, []string{"cn-bj2", "cn-sh2"})
	require.NoError(t, err)

	require.Len(t, got.Images, 3)
	require.Equal(t, "uimage-shared", got.Images[0].ImageID)
	require.Equal(t, "first-seen", got.Images[0].ImageName)
	require.Equal(t, "cn-bj2", got.Images[0].Region)
	require.Equal(t, "uimage-bj", got.Images[1].ImageID)
	require.Equal(t, "uimage-sh", got.Images[2].ImageID)

	require.Len(t, got.EIPs, 3)
	require.Equal(t, "eip-shared", got.EIPs[0].EIPID)
	require.Equal(t, "cn-bj2", got.EIPs[0].Region)
	require.Equal(t, "1.1.1.1", got.EIPs[0].Addresses[0].IP)
}

func TestCollectEndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, api := newFakeAPI(t, func(q url.Values) (int, any) {
		region := q.Get("Region")
		switch q.Get("Action") {
		case ActionGetRegion:
			return http.StatusOK, ok(ActionGetRegion, map[string]any{"Regions": []any{
				map[string]any{"Region": "cn-bj", "Zone": "cn-bj-01"},
				map[string]any{"Region": "cn-sh", "Zone": "cn-sh-01"},
			}})
		case ActionDescribeUHostInstance:
			if region == "cn-bj" {
				return http.StatusOK, ok(ActionDescribeUHostInstance, map[string]any{"UHostSet": []any{host("bj-1"), host("bj-2")}})
			}
			return http.StatusOK, ok(ActionDescribeUHostInstance, map[string]any{"UHostSet": []any{}})
		case ActionDescribeUDisk:
			if region == "cn-sh" {
				return http.StatusServiceUnavailable, map[string]any{}
			}
			if q.Get("UHostIdForAttachment") == "bj-1" {
				return http.StatusOK, ok(ActionDescribeUDisk, map[string]any{"DataSet": []any{
					map[string]any{"UDiskId": "bsm-1", "UHostId": "bj-1", "Size": 100},
				}})
			}
		}
		return http.StatusOK, ok(q.Get("Action"), nil)
	})
	defer srv.Close()

	agg := NewAggregator(newTestClient(srv), logger.Nop())
	got, err := agg.Collect(context.Background(), testTarget, nil)
	require.NoError(t, err)

	require.Len(t, got.Instances, 2)
	require.Equal(t, []string{"cn-bj"}, got.ValidRegions)
	require.Equal(t, 1, api.count(ActionGetRegion, ""))

	require.Len(t, got.Instances[0].Volumes, 1)
	require.Equal(t, "bsm-1", got.Instances[0].Volumes[0].UDiskID)
	require.Equal(t, "cn-bj", got.Instances[0].Volumes[0].Region)
	require.Nil(t, got.Instances[1].Volumes)

	// a stray volume failure in the empty region stays silent
	require.Empty(t, volumeIDs(agg, "cn-sh"))
}

func TestCollectSkipsBlankRegionRow(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, api := newFakeAPI(t, func(q url.Values) (int, any) {
		switch q.Get("Action") {
		case ActionGetRegion:
			return http.StatusOK, ok(ActionGetRegion, map[string]any{"Regions": []any{
				map[string]any{"Region": "cn-bj"},
				map[string]any{"Region": ""},
			}})
		case ActionDescribeUHostInstance:
			return http.StatusOK, ok(ActionDescribeUHostInstance, map[string]any{"UHostSet": []any{host("bj-1")}})
		}
		return http.StatusOK, ok(q.Get("Action"), nil)
	})
	defer srv.Close()

	got, err := NewAggregator(newTestClient(srv), logger.Nop()).Collect(context.Background(), testTarget, nil)
	require.NoError(t, err)
	require.Len(t, got.Instances, 1)
	require.Equal(t, []string{"cn-bj"}, got.ValidRegions)
	require.Equal(t, 1, api.count(ActionDescribeUHostInstance, "cn-bj"))
}

func volumeIDs(agg *Aggregator, region string) []string {
	vols := agg.client.Volumes(context.Background(), testTarget, region, "")
	ids := make([]string, 0, len(vols))
	for _, v := range vols {
		ids = append(ids, v.UDiskID)
	}
	return ids
}

func TestCollectNoRegions(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, api := newFakeAPI(t, func(q url.Values) (int, any) {
		return http.StatusOK, map[string]any{"RetCode": 100, "Message": "denied"}
	})
	defer srv.Close()

	got, err := NewAggregator(newTestClient(srv), logger.Nop()).Collect(context.Background(), testTarget, nil)
	require.NoError(t, err)
	require.Empty(t, got.Instances)
	require.Empty(t, got.ValidRegions)
	require.NotNil(t, got.ValidRegions)
	require.Zero(t, api.count(ActionDescribeUHostInstance, ""))
}

func TestCollectDeduplicatesTargetRegions(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, api := newFakeAPI(t, func(q url.Values) (int, any) {
		return http.StatusOK, ok(q.Get("Action"), nil)
	})
	defer srv.Close()

	_, err := NewAggregator(newTestClient(srv), logger.Nop()).
		Collect(context.Background(), testTarget, []string{"cn-bj2", "", "cn-bj2"})
	require.NoError(t, err)
	require.Equal(t, 1, api.count(ActionDescribeUHostInstance, "cn-bj2"))
	require.Zero(t, api.count(ActionGetRegion, ""))
}

func TestCollectCanceled(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, _ := newFakeAPI(t, func(q url.Values) (int, any) {
		return http.StatusOK, ok(q.Get("Action"), nil)
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAggregator(newTestClient(srv), logger.Nop()).Collect(ctx, testTarget, []string{"cn-bj2"})
	require.ErrorIs(t, err, context.Canceled)
}

package ucloud

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
)

// Actions
const (
	ActionGetBalance            = "GetBalance"
	ActionGetRegion             = "GetRegion"
	ActionDescribeUHostInstance = "DescribeUHostInstance"
	ActionDescribeUDisk         = "DescribeUDisk"
	ActionDescribeImage         = "DescribeImage"
	ActionDescribeEIP           = "DescribeEIPWithAllNum"
	ActionListProjects          = "ListProjects"
)

// APIError is a provider-reported fault (RetCode != 0)
type APIError struct {
	Action  string
	RetCode int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ucloud %s: RetCode %d: %s", e.Action, e.RetCode, e.Message)
}

// IsAPIError reports whether err is a provider fault with the given code.
// A code of -1 matches any code.
func IsAPIError(err error, code int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return code == -1 || apiErr.RetCode == code
}

// response is implemented by every per-action payload
type response interface {
	header() *envelope
	validate() error
}

type envelope struct {
	RetCode int    `json:"RetCode"`
	Action  string `json:"Action"`
	Message string `json:"Message"`
}

func (e *envelope) header() *envelope { return e }

// flexString accepts both JSON strings and numbers
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		v, err := strconv.Unquote(string(b))
		if err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(b)
	return nil
}

// GetBalance

type accountInfo struct {
	Amount          flexString `json:"Amount"`
	AmountAvailable flexString `json:"AmountAvailable"`
	AmountCredit    flexString `json:"AmountCredit"`
	AmountFree      flexString `json:"AmountFree"`
	AmountFreeze    flexString `json:"AmountFreeze"`
}

type balanceResponse struct {
	envelope
	AccountInfo *accountInfo `json:"AccountInfo"`
}

func (r *balanceResponse) validate() error {
	if r.AccountInfo == nil {
		return errors.New("missing AccountInfo")
	}
	return nil
}

// amount picks AmountAvailable, then Amount, then zero.
func (a *accountInfo) amount() (float64, error) {
	raw := string(a.AmountAvailable)
	if raw == "" {
		raw = string(a.Amount)
	}
	if raw == "" {
		raw = "0"
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable balance %q: %w", raw, err)
	}
	return v, nil
}

// GetRegion

type regionItem struct {
	RegionId   int    `json:"RegionId"`
	RegionName string `json:"RegionName"`
	IsDefault  bool   `json:"IsDefault"`
	BitMaps    string `json:"BitMaps"`
	Region     string `json:"Region"`
	Zone       string `json:"Zone"`
}

type regionResponse struct {
	envelope
	Regions []regionItem `json:"Regions"`
}

// validate drops rows without a region name; the rest of the listing stays usable
func (r *regionResponse) validate() error {
	r.Regions = lo.Filter(r.Regions, func(item regionItem, _ int) bool {
		return item.Region != ""
	})
	return nil
}

func (item regionItem) toDomain() snapshot.Region {
	return snapshot.Region{
		RegionID:   item.RegionId,
		RegionName: item.RegionName,
		IsDefault:  item.IsDefault,
		BitMaps:    item.BitMaps,
		Region:     item.Region,
		Zone:       item.Zone,
	}
}

// DescribeUHostInstance

type hostDiskItem struct {
	DiskType   string `json:"DiskType"`
	IsBoot     string `json:"IsBoot"`
	Encrypted  string `json:"Encrypted"`
	Type       string `json:"Type"`
	DiskId     string `json:"DiskId"`
	Name       string `json:"Name"`
	Drive      string `json:"Drive"`
	Size       int    `json:"Size"`
	BackupType string `json:"BackupType"`
}

type hostIPItem struct {
	IPMode             string `json:"IPMode"`
	Default            string `json:"Default"`
	Mac                string `json:"Mac"`
	Weight             int    `json:"Weight"`
	Type               string `json:"Type"`
	IPId               string `json:"IPId"`
	IP                 string `json:"IP"`
	Bandwidth          int    `json:"Bandwidth"`
	VPCId              string `json:"VPCId"`
	SubnetId           string `json:"SubnetId"`
	NetworkInterfaceId string `json:"NetworkInterfaceId"`
}

type hostItem struct {
	Zone           string         `json:"Zone"`
	UHostId        string         `json:"UHostId"`
	UHostType      string         `json:"UHostType"`
	MachineType    string         `json:"MachineType"`
	CpuPlatform    string         `json:"CpuPlatform"`
	ImageId        string         `json:"ImageId"`
	BasicImageId   string         `json:"BasicImageId"`
	BasicImageName string         `json:"BasicImageName"`
	Tag            string         `json:"Tag"`
	Remark         string         `json:"Remark"`
	Name           string         `json:"Name"`
	State          string         `json:"State"`
	CreateTime     int64          `json:"CreateTime"`
	ChargeType     string         `json:"ChargeType"`
	ExpireTime     int64          `json:"ExpireTime"`
	CPU            int            `json:"CPU"`
	Memory         int            `json:"Memory"`
	AutoRenew      string         `json:"AutoRenew"`
	GPU            int            `json:"GPU"`
	GpuType        string         `json:"GpuType"`
	OsName         string         `json:"OsName"`
	OsType         string         `json:"OsType"`
	NetworkState   string         `json:"NetworkState"`
	TotalDiskSpace int            `json:"TotalDiskSpace"`
	DiskSet        []hostDiskItem `json:"DiskSet"`
	IPSet          []hostIPItem   `json:"IPSet"`
}

type hostResponse struct {
	envelope
	TotalCount int        `json:"TotalCount"`
	UHostSet   []hostItem `json:"UHostSet"`
}

func (r *hostResponse) validate() error { return nil }

func (h hostItem) toDomain(region string) snapshot.Instance {
	inst := snapshot.Instance{
		UHostID:        h.UHostId,
		Name:           h.Name,
		Zone:           h.Zone,
		Region:         region,
		UHostType:      h.UHostType,
		MachineType:    h.MachineType,
		CPUPlatform:    h.CpuPlatform,
		ImageID:        h.ImageId,
		BasicImageID:   h.BasicImageId,
		BasicImageName: h.BasicImageName,
		Tag:            h.Tag,
		Remark:         h.Remark,
		State:          h.State,
		ChargeType:     h.ChargeType,
		AutoRenew:      h.AutoRenew,
		CreateTime:     h.CreateTime,
		ExpireTime:     h.ExpireTime,
		CPU:            h.CPU,
		Memory:         h.Memory,
		GPU:            h.GPU,
		GPUType:        h.GpuType,
		OsName:         h.OsName,
		OsType:         h.OsType,
		NetworkState:   h.NetworkState,
		TotalDiskSpace: h.TotalDiskSpace,
	}
	for _, d := range h.DiskSet {
		inst.DiskSet = append(inst.DiskSet, snapshot.Disk{
			DiskType:   d.DiskType,
			IsBoot:     d.IsBoot,
			Encrypted:  d.Encrypted,
			Type:       d.Type,
			DiskID:     d.DiskId,
			Name:       d.Name,
			Drive:      d.Drive,
			Size:       d.Size,
			BackupType: d.BackupType,
		})
	}
	for _, ip := range h.IPSet {
		inst.IPSet = append(inst.IPSet, snapshot.IP{
			IPMode:             ip.IPMode,
			Default:            ip.Default,
			Mac:                ip.Mac,
			Weight:             ip.Weight,
			Type:               ip.Type,
			IPID:               ip.IPId,
			IP:                 ip.IP,
			Bandwidth:          ip.Bandwidth,
			VPCID:              ip.VPCId,
			SubnetID:           ip.SubnetId,
			NetworkInterfaceID: ip.NetworkInterfaceId,
		})
	}
	return inst
}

// DescribeUDisk

type diskItem struct {
	Zone        string `json:"Zone"`
	UDiskId     string `json:"UDiskId"`
	Name        string `json:"Name"`
	Size        int    `json:"Size"`
	Status      string `json:"Status"`
	CreateTime  int64  `json:"CreateTime"`
	ExpiredTime int64  `json:"ExpiredTime"`
	UHostId     string `json:"UHostId"`
	UHostName   string `json:"UHostName"`
	UHostIP     string `json:"UHostIP"`
	HostId      string `json:"HostId"`
	HostName    string `json:"HostName"`
	HostIP      string `json:"HostIP"`
	DeviceName  string `json:"DeviceName"`
	ChargeType  string `json:"ChargeType"`
	Tag         string `json:"Tag"`
	IsExpire    string `json:"IsExpire"`
	DiskType    string `json:"DiskType"`
	IsBoot      string `json:"IsBoot"`
}

type diskResponse struct {
	envelope
	TotalCount int        `json:"TotalCount"`
	DataSet    []diskItem `json:"DataSet"`
}

func (r *diskResponse) validate() error { return nil }

func (d diskItem) toDomain(region string) snapshot.Volume {
	return snapshot.Volume{
		UDiskID:     d.UDiskId,
		Name:        d.Name,
		Zone:        d.Zone,
		Region:      region,
		Size:        d.Size,
		Status:      d.Status,
		DiskType:    d.DiskType,
		IsBoot:      d.IsBoot,
		DeviceName:  d.DeviceName,
		ChargeType:  d.ChargeType,
		Tag:         d.Tag,
		IsExpire:    d.IsExpire,
		CreateTime:  d.CreateTime,
		ExpiredTime: d.ExpiredTime,
		UHostID:     firstNonEmpty(d.UHostId, d.HostId),
		UHostName:   firstNonEmpty(d.UHostName, d.HostName),
		UHostIP:     firstNonEmpty(d.UHostIP, d.HostIP),
	}
}

// DescribeImage

type imageItem struct {
	Zone             string   `json:"Zone"`
	ImageId          string   `json:"ImageId"`
	ImageName        string   `json:"ImageName"`
	Tag              string   `json:"Tag"`
	OsType           string   `json:"OsType"`
	OsName           string   `json:"OsName"`
	ImageType        string   `json:"ImageType"`
	Features         []string `json:"Features"`
	FuncType         string   `json:"FuncType"`
	Vendor           string   `json:"Vendor"`
	State            string   `json:"State"`
	ImageDescription string   `json:"ImageDescription"`
	CreateTime       int64    `json:"CreateTime"`
	ImageSize        int      `json:"ImageSize"`
	MinimalCPU       string   `json:"MinimalCPU"`
}

type imageResponse struct {
	envelope
	TotalCount int         `json:"TotalCount"`
	ImageSet   []imageItem `json:"ImageSet"`
}

func (r *imageResponse) validate() error { return nil }

func (i imageItem) toDomain(region string) snapshot.Image {
	return snapshot.Image{
		ImageID:          i.ImageId,
		ImageName:        i.ImageName,
		Zone:             i.Zone,
		Region:           region,
		Tag:              i.Tag,
		OsType:           i.OsType,
		OsName:           i.OsName,
		ImageType:        i.ImageType,
		Features:         i.Features,
		FuncType:         i.FuncType,
		Vendor:           i.Vendor,
		State:            i.State,
		ImageDescription: i.ImageDescription,
		CreateTime:       i.CreateTime,
		ImageSize:        i.ImageSize,
		MinimalCPU:       i.MinimalCPU,
	}
}

// DescribeEIPWithAllNum

type eipAddrItem struct {
	OperatorName string `json:"OperatorName"`
	IP           string `json:"IP"`
}

type eipResourceItem struct {
	ResourceType string `json:"ResourceType"`
	ResourceID   string `json:"ResourceID"`
	ResourceName string `json:"ResourceName"`
}

type eipItem struct {
	EIPId            string           `json:"EIPId"`
	Name             string           `json:"Name"`
	Zone             string           `json:"Zone"`
	EIPAddr          []eipAddrItem    `json:"EIPAddr"`
	Bandwidth        int              `json:"Bandwidth"`
	BandwidthType    int              `json:"BandwidthType"`
	ChargeType       string           `json:"ChargeType"`
	PayMode          string           `json:"PayMode"`
	Status           string           `json:"Status"`
	Tag              string           `json:"Tag"`
	Remark           string           `json:"Remark"`
	CreateTime       int64            `json:"CreateTime"`
	ExpireTime       int64            `json:"ExpireTime"`
	Resource         *eipResourceItem `json:"Resource"`
	BindResourceType string           `json:"BindResourceType"`
	BindResourceId   string           `json:"BindResourceId"`
	BindResourceName string           `json:"BindResourceName"`
}

type eipResponse struct {
	envelope
	TotalCount int       `json:"TotalCount"`
	EIPSet     []eipItem `json:"EIPSet"`
}

func (r *eipResponse) validate() error { return nil }

func (e eipItem) toDomain(region string) snapshot.EIP {
	out := snapshot.EIP{
		EIPID:            e.EIPId,
		Name:             e.Name,
		Region:           region,
		Zone:             e.Zone,
		Bandwidth:        e.Bandwidth,
		BandwidthType:    e.BandwidthType,
		ChargeType:       e.ChargeType,
		PayMode:          e.PayMode,
		Status:           e.Status,
		Tag:              e.Tag,
		Remark:           e.Remark,
		CreateTime:       e.CreateTime,
		ExpireTime:       e.ExpireTime,
		BindResourceType: e.BindResourceType,
		BindResourceID:   e.BindResourceId,
		BindResourceName: e.BindResourceName,
	}
	if e.Resource != nil {
		out.BindResourceType = firstNonEmpty(out.BindResourceType, e.Resource.ResourceType)
		out.BindResourceID = firstNonEmpty(out.BindResourceID, e.Resource.ResourceID)
		out.BindResourceName = firstNonEmpty(out.BindResourceName, e.Resource.ResourceName)
	}
	for _, a := range e.EIPAddr {
		out.Addresses = append(out.Addresses, snapshot.EIPAddress{OperatorName: a.OperatorName, IP: a.IP})
	}
	return out
}

// ListProjects

type projectItem struct {
	ProjectID   string `json:"ProjectID"`
	ProjectName string `json:"ProjectName"`
	UserCount   int    `json:"UserCount"`
	CreatedAt   int64  `json:"CreatedAt"`
}

type projectResponse struct {
	envelope
	TotalCount int           `json:"TotalCount"`
	Projects   []projectItem `json:"Projects"`
}

func (r *projectResponse) validate() error {
	r.Projects = lo.Filter(r.Projects, func(p projectItem, _ int) bool {
		return p.ProjectID != ""
	})
	return nil
}

func (p projectItem) toDomain() snapshot.Project {
	return snapshot.Project{
		ProjectID:   p.ProjectID,
		ProjectName: p.ProjectName,
		CreateTime:  p.CreatedAt,
		UserCount:   p.UserCount,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

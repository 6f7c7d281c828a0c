package snapshot

import "time"

// CurrencyCNY is the only currency the provider reports balances in
const CurrencyCNY = "CNY"

// Region is one zone row returned by the provider's region listing.
// Several rows share the same Region name, one per zone.
type Region struct {
	RegionID   int    `json:"region_id"`
	RegionName string `json:"region_name"`
	IsDefault  bool   `json:"is_default"`
	BitMaps    string `json:"bit_maps,omitempty"`
	Region     string `json:"region"`
	Zone       string `json:"zone"`
}

// Balance is the available account balance at the time of the refresh
type Balance struct {
	AccountID string    `json:"account_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project is an organizational project of the account
type Project struct {
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	CreateTime  int64  `json:"create_time"`
	UserCount   int    `json:"user_count"`
}

// Disk is a disk entry embedded in an instance record
type Disk struct {
	DiskType   string `json:"disk_type,omitempty"`
	IsBoot     string `json:"is_boot,omitempty"`
	Encrypted  string `json:"encrypted,omitempty"`
	Type       string `json:"type,omitempty"`
	DiskID     string `json:"disk_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Drive      string `json:"drive,omitempty"`
	Size       int    `json:"size,omitempty"`
	BackupType string `json:"backup_type,omitempty"`
}

// IP is a network interface entry embedded in an instance record
type IP struct {
	IPMode             string `json:"ip_mode,omitempty"`
	Default            string `json:"default,omitempty"`
	Mac                string `json:"mac,omitempty"`
	Weight             int    `json:"weight,omitempty"`
	Type               string `json:"type,omitempty"`
	IPID               string `json:"ip_id,omitempty"`
	IP                 string `json:"ip,omitempty"`
	Bandwidth          int    `json:"bandwidth,omitempty"`
	VPCID              string `json:"vpc_id,omitempty"`
	SubnetID           string `json:"subnet_id,omitempty"`
	NetworkInterfaceID string `json:"network_interface_id,omitempty"`
}

// Instance is a compute host. Region is set by the aggregator.
type Instance struct {
	UHostID        string   `json:"uhost_id"`
	Name           string   `json:"name,omitempty"`
	Zone           string   `json:"zone,omitempty"`
	Region         string   `json:"region"`
	UHostType      string   `json:"uhost_type,omitempty"`
	MachineType    string   `json:"machine_type,omitempty"`
	CPUPlatform    string   `json:"cpu_platform,omitempty"`
	ImageID        string   `json:"image_id,omitempty"`
	BasicImageID   string   `json:"basic_image_id,omitempty"`
	BasicImageName string   `json:"basic_image_name,omitempty"`
	Tag            string   `json:"tag,omitempty"`
	Remark         string   `json:"remark,omitempty"`
	State          string   `json:"state,omitempty"`
	ChargeType     string   `json:"charge_type,omitempty"`
	AutoRenew      string   `json:"auto_renew,omitempty"`
	CreateTime     int64    `json:"create_time,omitempty"`
	ExpireTime     int64    `json:"expire_time,omitempty"`
	CPU            int      `json:"cpu,omitempty"`
	Memory         int      `json:"memory,omitempty"`
	GPU            int      `json:"gpu,omitempty"`
	GPUType        string   `json:"gpu_type,omitempty"`
	OsName         string   `json:"os_name,omitempty"`
	OsType         string   `json:"os_type,omitempty"`
	NetworkState   string   `json:"network_state,omitempty"`
	TotalDiskSpace int      `json:"total_disk_space,omitempty"`
	DiskSet        []Disk   `json:"disk_set,omitempty"`
	IPSet          []IP     `json:"ip_set,omitempty"`
	Volumes        []Volume `json:"volumes,omitempty"`
}

// Volume is a block storage disk, attached to an instance by the aggregator
type Volume struct {
	UDiskID     string `json:"udisk_id"`
	Name        string `json:"name,omitempty"`
	Zone        string `json:"zone,omitempty"`
	Region      string `json:"region"`
	Size        int    `json:"size,omitempty"`
	Status      string `json:"status,omitempty"`
	DiskType    string `json:"disk_type,omitempty"`
	IsBoot      string `json:"is_boot,omitempty"`
	DeviceName  string `json:"device_name,omitempty"`
	ChargeType  string `json:"charge_type,omitempty"`
	Tag         string `json:"tag,omitempty"`
	IsExpire    string `json:"is_expire,omitempty"`
	CreateTime  int64  `json:"create_time,omitempty"`
	ExpiredTime int64  `json:"expired_time,omitempty"`
	UHostID     string `json:"uhost_id,omitempty"`
	UHostName   string `json:"uhost_name,omitempty"`
	UHostIP     string `json:"uhost_ip,omitempty"`
}

// Image is a machine image visible in a region
type Image struct {
	ImageID          string   `json:"image_id"`
	ImageName        string   `json:"image_name,omitempty"`
	Zone             string   `json:"zone,omitempty"`
	Region           string   `json:"region"`
	Tag              string   `json:"tag,omitempty"`
	OsType           string   `json:"os_type,omitempty"`
	OsName           string   `json:"os_name,omitempty"`
	ImageType        string   `json:"image_type,omitempty"`
	Features         []string `json:"features,omitempty"`
	FuncType         string   `json:"func_type,omitempty"`
	Vendor           string   `json:"vendor,omitempty"`
	State            string   `json:"state,omitempty"`
	ImageDescription string   `json:"image_description,omitempty"`
	CreateTime       int64    `json:"create_time,omitempty"`
	ImageSize        int      `json:"image_size,omitempty"`
	MinimalCPU       string   `json:"minimal_cpu,omitempty"`
}

// EIPAddress is one operator line of an elastic IP
type EIPAddress struct {
	OperatorName string `json:"operator_name,omitempty"`
	IP           string `json:"ip"`
}

// EIP is an elastic (floating) IP
type EIP struct {
	EIPID            string       `json:"eip_id"`
	Name             string       `json:"name,omitempty"`
	Region           string       `json:"region"`
	Zone             string       `json:"zone,omitempty"`
	Addresses        []EIPAddress `json:"addresses,omitempty"`
	Bandwidth        int          `json:"bandwidth,omitempty"`
	BandwidthType    int          `json:"bandwidth_type,omitempty"`
	ChargeType       string       `json:"charge_type,omitempty"`
	PayMode          string       `json:"pay_mode,omitempty"`
	Status           string       `json:"status,omitempty"`
	Tag              string       `json:"tag,omitempty"`
	Remark           string       `json:"remark,omitempty"`
	CreateTime       int64        `json:"create_time,omitempty"`
	ExpireTime       int64        `json:"expire_time,omitempty"`
	BindResourceType string       `json:"bind_resource_type,omitempty"`
	BindResourceID   string       `json:"bind_resource_id,omitempty"`
	BindResourceName string       `json:"bind_resource_name,omitempty"`
}

// Collection is the merged result of one fan-out across regions
type Collection struct {
	Instances    []Instance `json:"instances"`
	Images       []Image    `json:"images"`
	EIPs         []EIP      `json:"eips"`
	ValidRegions []string   `json:"valid_regions"`
}

// Snapshot is the per-account aggregate of one refresh cycle.
// A refresh replaces it in full.
type Snapshot struct {
	AccountID    string     `json:"account_id"`
	Balance      *Balance   `json:"balance,omitempty"`
	Projects     []Project  `json:"projects"`
	Instances    []Instance `json:"instances"`
	Images       []Image    `json:"images"`
	EIPs         []EIP      `json:"eips"`
	ValidRegions []string   `json:"valid_regions"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// VolumeCount sums the volumes attached across all instances
func (s *Snapshot) VolumeCount() int {
	n := 0
	for _, inst := range s.Instances {
		n += len(inst.Volumes)
	}
	return n
}

package dto

import (
	"github.com/pratik-mahalle/mxcloud/internal/domain/alert"
	"github.com/pratik-mahalle/mxcloud/internal/pkg/utils"
)

// NotificationListDTO is one page of notifications plus the unread total
type NotificationListDTO struct {
	utils.PageMeta
	Notifications []*alert.Notification `json:"notifications"`
	Unread        int64                 `json:"unread"`
}

// CheckResultDTO lists notifications created by an alert check
type CheckResultDTO struct {
	Triggered     int                   `json:"triggered"`
	Notifications []*alert.Notification `json:"notifications"`
}

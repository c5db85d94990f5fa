package dto

type ListNotificationsQuery struct {
	Unread bool `query:"unread"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

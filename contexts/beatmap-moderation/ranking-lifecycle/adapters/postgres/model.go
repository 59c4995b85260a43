package postgresadapter

import "time"

type mapModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	SetID      int64     `gorm:"column:set_id"`
	MD5        string    `gorm:"column:md5"`
	Artist     string    `gorm:"column:artist"`
	Title      string    `gorm:"column:title"`
	Version    string    `gorm:"column:version"`
	Creator    string    `gorm:"column:creator"`
	Status     int       `gorm:"column:status"`
	Frozen     bool      `gorm:"column:frozen"`
	ChangeDate time.Time `gorm:"column:change_date"`
}

func (mapModel) TableName() string { return "maps" }

type scoreModel struct {
	ID     int64  `gorm:"column:id;primaryKey"`
	MapMD5 string `gorm:"column:map_md5"`
}

func (scoreModel) TableName() string { return "scores" }

type mapRequestModel struct {
	ID    int64 `gorm:"column:id;primaryKey"`
	MapID int64 `gorm:"column:map_id"`
}

func (mapRequestModel) TableName() string { return "map_requests" }

type userModel struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name"`
	Priv int64  `gorm:"column:priv"`
}

func (userModel) TableName() string { return "users" }

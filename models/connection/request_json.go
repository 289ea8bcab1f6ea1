package connection

type ReqCreateGame struct {
	Rows      int `json:"rows"`
	Columns   int `json:"columns"`
	ShipCount int `json:"ship_count"`
}

type ReqGame struct {
	GameId int64 `json:"game_id"`
}

type ReqProbe struct {
	GameId int64 `json:"game_id"`
	Row    int   `json:"row"`
	Column int   `json:"column"`
}

type ReqShipInfo struct {
	GameId int64 `json:"game_id"`
	ShipId int   `json:"ship_id"`
}

package api

import (
	"github.com/nampwaztaken/skycast-ultra-casino/accounts"
	"github.com/nampwaztaken/skycast-ultra-casino/communications"
	"github.com/nampwaztaken/skycast-ultra-casino/config"
	"github.com/nampwaztaken/skycast-ultra-casino/db"
	"github.com/nampwaztaken/skycast-ultra-casino/insight"
)

type SharedController struct {
	Db      *db.DB
	Env     *config.Env
	Manager *communications.Manager
	Store   accounts.Store
	Insight *insight.Client
}

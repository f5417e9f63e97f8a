// Package database opens the optional relational store used for run history.
//
// Two drivers are supported through GORM: mysql for shared deployments and
// sqlite for a local database file. Connect verifies the connection with a
// ping and applies sane pool limits.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("History disabled", zap.Error(err))
//	}
package database

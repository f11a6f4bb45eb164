package migration

import _ "embed"

// Schema cria as tabelas projects e ad_objects; é idempotente
//
//go:embed schema.sql
var Schema string

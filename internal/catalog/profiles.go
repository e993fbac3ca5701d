package catalog

import "time"

// SCIAMACHY returns the profile of the SCIAMACHY archive database.
// Levels 0/1/2 share the stateinfo state table; measurement states link to
// products through stateinfo_meta__XP bridge rows carrying an fk_stateinfo
// array.
func SCIAMACHY() *Profile {
	return &Profile{
		Name:     "SCIAMACHY",
		Database: "scia",
		metaTables: map[Level]string{
			Level0: "meta__0P",
			Level1: "meta__1P",
			Level2: "meta__2P",
		},
		namePrefix: []namePrefix{
			{prefix: "SCI_NL__0P", level: Level0},
			{prefix: "SCI_NL__1P", level: Level1},
			{prefix: "SCI_NL__2P", level: Level2},
			{prefix: "SCI_OL__2P", level: Level2},
		},
		StateTable:    "stateinfo",
		TileInfoTable: "tileinfo",
		BridgeOwner:   "stateinfo",
		TileInfoTime:  TimeJulianDay,
		MinYear:       2002,
		Epoch:         time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		stateIDsByMode: map[ObservationMode][]int{
			ModeNadir:       {1, 2, 3, 4, 5, 6, 7, 11, 12, 13, 14, 15},
			ModeLimb:        {28, 29, 30, 31, 32, 33},
			ModeOccultation: {56, 57},
			ModeMonitor:     {8, 16, 26, 39, 46, 48, 51, 52, 59, 61, 62, 63, 65, 69, 70},
		},
		tiles: map[string]TileTable{
			"cld_ol": {
				Table:      "tile_cld_ol",
				MatchTable: "cld_ol_tileinfo",
				ExtraColumns: []string{
					"cloudFraction", "cloudTopPress", "cloudOpticalDepth", "cloudBRDF",
					"surfacePress", "surfaceRefl", "aerosolIndex",
				},
			},
			"no2_ol": {
				Table:        "tile_no2_ol",
				MatchTable:   "no2_ol_tileinfo",
				ExtraColumns: []string{"verticalColumn", "slantColumn", "amfGround", "amfCloud"},
			},
			"o3_ol": {
				Table:        "tile_o3_ol",
				MatchTable:   "o3_ol_tileinfo",
				ExtraColumns: []string{"verticalColumn", "slantColumn", "amfGround", "amfCloud"},
			},
			"fresco": {
				Table:      "tile_fresco",
				MatchTable: "fresco_tileinfo",
				ExtraColumns: []string{
					"integrationTime", "errorFlag",
					"cloudFraction", "cloudTopHeight", "cloudTopPressure", "cloudAlbedo",
					"surfaceHeight", "surfacePressure", "surfaceAlbedo",
				},
			},
			"imlm": {
				Table:      "tile_imlm",
				MatchTable: "imlm_tileinfo",
				ExtraColumns: []string{
					"integrationTime", "errorFlag",
					"h2o_column", "n2o_column", "co_column", "cloudFraction",
					"surfaceAlbedo", "meanElevation",
				},
			},
			"mcfs": {
				Table:      "tile_mcfs",
				MatchTable: "mcfs_tileinfo",
				ExtraColumns: []string{
					"integrationTime", "quality", "numMerisPixels",
					"cloudFraction", "cloudFractionThick",
				},
			},
		},
		tileOrder: []string{"cld_ol", "fresco", "imlm", "mcfs", "no2_ol", "o3_ol"},
	}
}

// GOME returns the profile of the GOME archive database. GOME has no state
// table; geolocation lives in tileinfo rows keyed by a real-valued day count
// since 1950, linked to products through tileinfo_meta__XP bridge rows.
func GOME() *Profile {
	return &Profile{
		Name:     "GOME",
		Database: "gome",
		metaTables: map[Level]string{
			Level1: "meta__1P",
			Level2: "meta__2P",
		},
		namePrefix: []namePrefix{
			{prefix: "ER02_GOM_GOM_1P_", level: Level1},
			{prefix: "GOME_O3-NO2_L2_", level: Level2},
			{suffix: "1", level: Level1},
			{suffix: "2", level: Level2},
		},
		TileInfoTable: "tileinfo",
		BridgeOwner:   "tileinfo",
		TileInfoTime:  TimeJulianDay,
		MinYear:       1995,
		Epoch:         time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC),
		tiles: map[string]TileTable{
			"gdp": {
				Table: "tile_gdp",
				ExtraColumns: []string{
					"o3_gdp", "o3_gdp_err",
					"cloudfraction", "cloudtoppress", "surfacepress",
				},
			},
			"pmd": {
				Table:        "tile_pmd",
				ExtraColumns: []string{"pmd_1", "pmd_2", "pmd_3"},
			},
			"fresco": {
				Table: "tile_fresco",
				ExtraColumns: []string{
					"integrationTime", "errorFlag",
					"cloudFraction", "cloudTopHeight", "cloudTopPressure", "cloudAlbedo",
					"surfaceHeight", "surfacePressure", "surfaceAlbedo",
				},
				JulianKeyed: true,
				MetaTable:   "meta_fresco",
			},
		},
		tileOrder: []string{"fresco", "gdp", "pmd"},
	}
}

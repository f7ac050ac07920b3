// Package project implements the SQLite project database for the
// dam-capacity pipeline: schema with check-constraint invariants, typed
// accessors for each entity, seeded lookup tables, JSONL import for the
// build step, and JSONL export of the reach views.
package project

// Schema DDL. Check constraints are the correctness backstop: writes
// violating a documented range are rejected by the engine regardless of
// what the model layer computed.
const (
	createEcoregions = `CREATE TABLE Ecoregions (
    EcoregionID INTEGER PRIMARY KEY,
    Name TEXT NOT NULL
);`

	createWatersheds = `CREATE TABLE Watersheds (
    WatershedID TEXT PRIMARY KEY,
    Name TEXT NOT NULL,
    AreaSqKm REAL NOT NULL CHECK (AreaSqKm >= 0),
    EcoregionID INTEGER NOT NULL,
    States TEXT,
    QLow TEXT,
    Q2 TEXT,
    MaxDrainage REAL NOT NULL DEFAULT 0 CHECK (MaxDrainage >= 0),
    FOREIGN KEY (EcoregionID) REFERENCES Ecoregions(EcoregionID)
);`

	createEpochs = `CREATE TABLE Epochs (
    EpochID INTEGER PRIMARY KEY,
    Name TEXT NOT NULL
);`

	createVegetationTypes = `CREATE TABLE VegetationTypes (
    VegetationID INTEGER PRIMARY KEY,
    EpochID INTEGER NOT NULL,
    Name TEXT NOT NULL,
    DefaultSuitability INTEGER NOT NULL CHECK (DefaultSuitability BETWEEN 0 AND 4),
    LandUseGroup TEXT,
    LandUseIntensity REAL NOT NULL DEFAULT 0 CHECK (LandUseIntensity >= 0),
    FOREIGN KEY (EpochID) REFERENCES Epochs(EpochID)
);`

	createVegetationOverrides = `CREATE TABLE VegetationOverrides (
    EcoregionID INTEGER NOT NULL,
    VegetationID INTEGER NOT NULL,
    OverrideSuitability INTEGER NOT NULL CHECK (OverrideSuitability BETWEEN 0 AND 4),
    PRIMARY KEY (EcoregionID, VegetationID),
    FOREIGN KEY (EcoregionID) REFERENCES Ecoregions(EcoregionID),
    FOREIGN KEY (VegetationID) REFERENCES VegetationTypes(VegetationID)
);`

	createReaches = `CREATE TABLE Reaches (
    ReachID INTEGER PRIMARY KEY,
    WatershedID TEXT NOT NULL,
    ReachCode INTEGER NOT NULL,
    StreamName TEXT,
    IsPeren INTEGER NOT NULL DEFAULT 0,
    Geometry TEXT,
    iGeo_Len REAL NOT NULL CHECK (iGeo_Len > 0),
    iGeo_Slope REAL CHECK (iGeo_Slope >= 0),
    iGeo_DA REAL CHECK (iGeo_DA >= 0),
    iVeg_30EX REAL CHECK (iVeg_30EX BETWEEN 0 AND 4),
    iVeg100EX REAL CHECK (iVeg100EX BETWEEN 0 AND 4),
    iVeg_30HPE REAL CHECK (iVeg_30HPE BETWEEN 0 AND 4),
    iVeg100HPE REAL CHECK (iVeg100HPE BETWEEN 0 AND 4),
    iPC_RoadX REAL CHECK (iPC_RoadX >= 0),
    iPC_RailX REAL CHECK (iPC_RailX >= 0),
    iPC_CanalX REAL CHECK (iPC_CanalX >= 0),
    iPC_HighLU REAL NOT NULL DEFAULT 0 CHECK (iPC_HighLU BETWEEN 0 AND 100),
    iPC_ModLU REAL NOT NULL DEFAULT 0 CHECK (iPC_ModLU BETWEEN 0 AND 100),
    iPC_LowLU REAL NOT NULL DEFAULT 0 CHECK (iPC_LowLU BETWEEN 0 AND 100),
    iHyd_QLow REAL CHECK (iHyd_QLow >= 0),
    iHyd_Q2 REAL CHECK (iHyd_Q2 >= 0),
    iHyd_SPLow REAL CHECK (iHyd_SPLow >= 0),
    iHyd_SP2 REAL CHECK (iHyd_SP2 >= 0),
    oVC_EX REAL CHECK (oVC_EX BETWEEN 0 AND 4),
    oVC_HPE REAL CHECK (oVC_HPE BETWEEN 0 AND 4),
    oCC_EX REAL CHECK (oCC_EX >= 0),
    oCC_HPE REAL CHECK (oCC_HPE >= 0),
    CapacityID_EX INTEGER,
    CapacityID_HPE INTEGER,
    RiskID INTEGER,
    LimitationID INTEGER,
    OpportunityID INTEGER,
    FOREIGN KEY (WatershedID) REFERENCES Watersheds(WatershedID),
    FOREIGN KEY (ReachCode) REFERENCES ReachCodes(ReachCode),
    FOREIGN KEY (CapacityID_EX) REFERENCES DamCapacities(CapacityID),
    FOREIGN KEY (CapacityID_HPE) REFERENCES DamCapacities(CapacityID),
    FOREIGN KEY (RiskID) REFERENCES DamRisks(RiskID),
    FOREIGN KEY (LimitationID) REFERENCES DamLimitations(LimitationID),
    FOREIGN KEY (OpportunityID) REFERENCES DamOpportunities(OpportunityID)
);`

	createReachVegetation = `CREATE TABLE ReachVegetation (
    ReachID INTEGER NOT NULL,
    VegetationID INTEGER NOT NULL,
    Buffer REAL NOT NULL CHECK (Buffer > 0),
    Area REAL NOT NULL CHECK (Area > 0),
    CellCount INTEGER NOT NULL CHECK (CellCount > 0),
    PRIMARY KEY (ReachID, VegetationID, Buffer),
    FOREIGN KEY (ReachID) REFERENCES Reaches(ReachID) ON DELETE CASCADE,
    FOREIGN KEY (VegetationID) REFERENCES VegetationTypes(VegetationID)
);`

	createHydroParams = `CREATE TABLE HydroParams (
    ParamID INTEGER PRIMARY KEY,
    Name TEXT NOT NULL UNIQUE,
    Description TEXT,
    DataUnits TEXT NOT NULL,
    EquationUnits TEXT NOT NULL,
    Conversion REAL NOT NULL DEFAULT 1
);`

	createWatershedHydroParams = `CREATE TABLE WatershedHydroParams (
    WatershedID TEXT NOT NULL,
    ParamID INTEGER NOT NULL,
    Value REAL NOT NULL,
    PRIMARY KEY (WatershedID, ParamID),
    FOREIGN KEY (WatershedID) REFERENCES Watersheds(WatershedID),
    FOREIGN KEY (ParamID) REFERENCES HydroParams(ParamID)
);`

	createDamCapacities = `CREATE TABLE DamCapacities (
    CapacityID INTEGER PRIMARY KEY,
    Name TEXT NOT NULL,
    MinCapacity REAL NOT NULL CHECK (MinCapacity >= 0),
    MaxCapacity REAL NOT NULL CHECK (MaxCapacity >= MinCapacity)
);`

	createDamRisks = `CREATE TABLE DamRisks (
    RiskID INTEGER PRIMARY KEY,
    Name TEXT NOT NULL
);`

	createDamLimitations = `CREATE TABLE DamLimitations (
    LimitationID INTEGER PRIMARY KEY,
    Name TEXT NOT NULL
);`

	createDamOpportunities = `CREATE TABLE DamOpportunities (
    OpportunityID INTEGER PRIMARY KEY,
    Name TEXT NOT NULL
);`

	createReachCodes = `CREATE TABLE ReachCodes (
    ReachCode INTEGER PRIMARY KEY,
    Name TEXT NOT NULL,
    DisplayName TEXT NOT NULL
);`

	createRuns = `CREATE TABLE Runs (
    RunID TEXT PRIMARY KEY,
    StartedAt TEXT NOT NULL,
    FinishedAt TEXT,
    Processed INTEGER NOT NULL DEFAULT 0 CHECK (Processed >= 0),
    Skipped INTEGER NOT NULL DEFAULT 0 CHECK (Skipped >= 0),
    ParamsDigest TEXT
);`
)

// Read views joining reaches with their categorical lookups for reporting
// and GIS visualization.
const (
	createVwReaches = `CREATE VIEW vwReaches AS
SELECT r.ReachID,
       r.WatershedID,
       w.Name AS WatershedName,
       rc.DisplayName AS ReachType,
       r.StreamName,
       r.IsPeren,
       r.iGeo_Len,
       r.iGeo_Slope,
       r.iGeo_DA,
       r.oVC_EX,
       r.oVC_HPE,
       r.oCC_EX,
       r.oCC_HPE,
       cex.Name AS CapacityEX,
       chpe.Name AS CapacityHPE,
       dr.Name AS Risk,
       dl.Name AS Limitation,
       do_.Name AS Opportunity
FROM Reaches r
INNER JOIN Watersheds w ON w.WatershedID = r.WatershedID
INNER JOIN ReachCodes rc ON rc.ReachCode = r.ReachCode
LEFT JOIN DamCapacities cex ON cex.CapacityID = r.CapacityID_EX
LEFT JOIN DamCapacities chpe ON chpe.CapacityID = r.CapacityID_HPE
LEFT JOIN DamRisks dr ON dr.RiskID = r.RiskID
LEFT JOIN DamLimitations dl ON dl.LimitationID = r.LimitationID
LEFT JOIN DamOpportunities do_ ON do_.OpportunityID = r.OpportunityID;`

	createVwReachAttributes = `CREATE VIEW vwReachAttributes AS
SELECT r.ReachID,
       r.WatershedID,
       r.iVeg_30EX,
       r.iVeg100EX,
       r.iVeg_30HPE,
       r.iVeg100HPE,
       r.iPC_RoadX,
       r.iPC_RailX,
       r.iPC_CanalX,
       r.iPC_HighLU,
       r.iPC_ModLU,
       r.iPC_LowLU,
       r.iHyd_QLow,
       r.iHyd_Q2,
       r.iHyd_SPLow,
       r.iHyd_SP2
FROM Reaches r;`
)

// Index DDL for the run step's hot lookups.
const (
	idxReachesWatershed   = `CREATE INDEX idx_reaches_watershed ON Reaches(WatershedID);`
	idxReachVegReach      = `CREATE INDEX idx_reachveg_reach ON ReachVegetation(ReachID);`
	idxOverridesEcoregion = `CREATE INDEX idx_overrides_ecoregion ON VegetationOverrides(EcoregionID);`
	idxWshedParams        = `CREATE INDEX idx_wshed_params ON WatershedHydroParams(WatershedID);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createEcoregions,
	createWatersheds,
	createEpochs,
	createVegetationTypes,
	createVegetationOverrides,
	createReachCodes,
	createDamCapacities,
	createDamRisks,
	createDamLimitations,
	createDamOpportunities,
	createReaches,
	createReachVegetation,
	createHydroParams,
	createWatershedHydroParams,
	createRuns,
}

// viewDDL lists all CREATE VIEW statements.
var viewDDL = []string{
	createVwReaches,
	createVwReachAttributes,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxReachesWatershed,
	idxReachVegReach,
	idxOverridesEcoregion,
	idxWshedParams,
}

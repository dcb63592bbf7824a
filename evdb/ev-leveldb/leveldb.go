package ev_leveldb

import (
	"log"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
)

var ocrDbInstance *leveldb.DB
var daoDbInstance *leveldb.DB

// The function initializes the LevelDB database holding OCR diagnostic records and
// returns a boolean indicating whether the initialization was successful.
func InitOcrDb(basePath string) bool {
	ocrDB, err := leveldb.OpenFile(filepath.Join(basePath, "ocr"), nil)
	if err != nil {
		log.Fatal("Failed to open OCR diagnostics LevelDB:", err)
		return false
	}
	ocrDbInstance = ocrDB
	return true
}

// The function initializes the LevelDB database backing the DAO read cache and
// returns a boolean indicating whether the initialization was successful.
func InitDaoDb(basePath string) bool {
	daoDB, err := leveldb.OpenFile(filepath.Join(basePath, "dao"), nil)
	if err != nil {
		log.Fatal("Failed to open DAO cache LevelDB:", err)
		return false
	}
	daoDbInstance = daoDB
	return true
}

// The function `InitDb` initializes both databases and returns true if all of them
// are successfully initialized, otherwise it returns false.
func InitDb(basePath string) bool {
	ocrStatus := InitOcrDb(basePath)
	daoStatus := InitDaoDb(basePath)

	if ocrStatus && daoStatus {
		return true
	} else {
		return false
	}
}

// The function returns the instance of the OCR diagnostics database.
func GetOcrDbInstance() *leveldb.DB {
	return ocrDbInstance
}

// The function returns the instance of the DAO cache database.
func GetDaoDbInstance() *leveldb.DB {
	return daoDbInstance
}

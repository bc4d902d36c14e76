// This is a http type of reporter.
// It fetches data from the bridge state / custody ledger
// and publishes on the http routes. Read-only; relayers page the
// event journal from here.

package reporter

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/crosslock-io/bridge-go/common"
	"github.com/crosslock-io/bridge-go/custody"
	"github.com/crosslock-io/bridge-go/state"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	ROUTE_HELLO     = "/hello"
	ROUTE_STATE     = "/state"
	ROUTE_EVENTS    = "/events"
	ROUTE_PROCESSED = "/processed"

	defaultEventPage = 100
	maxEventPage     = 1000
)

type HttpReporter struct {
	serverIP   string // listen ip
	serverPort string // listen port

	// upstream data sources
	st      *state.State
	ledger  *custody.Ledger
	vaultID ethcommon.Hash
}

func NewHttpReporter(serverIP, serverPort string, st *state.State, ledger *custody.Ledger, vaultID ethcommon.Hash) *HttpReporter {
	return &HttpReporter{
		serverIP:   serverIP,
		serverPort: serverPort,
		st:         st,
		ledger:     ledger,
		vaultID:    vaultID,
	}
}

// Hook up routes & handlers
func (h *HttpReporter) SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET(ROUTE_HELLO, Hello)
	router.GET(ROUTE_STATE, h.State)
	router.GET(ROUTE_EVENTS, h.Events)
	router.GET(ROUTE_PROCESSED, h.Processed)

	return router
}

// Hook up router & ip:port
func (h *HttpReporter) Run() {
	router := h.SetupRouter()
	address := h.serverIP + ":" + h.serverPort
	if err := router.Run(address); err != nil {
		panic(err)
	}
}

// Example route.
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "world",
	})
}

// Current bridge counters plus the vault balance.
func (h *HttpReporter) State(c *gin.Context) {
	processedCount, err := h.st.ProcessedCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	vaultBalance, err := h.ledger.BalanceOf(h.vaultID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":           h.st.Nonce(),
		"processed_count": processedCount,
		"vault":           h.vaultID.String(),
		"vault_balance":   vaultBalance,
	})
}

// Page through the event journal: /events?after=0&limit=100
func (h *HttpReporter) Events(c *gin.Context) {
	after, err := strconv.ParseInt(c.DefaultQuery("after", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "after must be an integer"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultEventPage)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	if limit > maxEventPage {
		limit = maxEventPage
	}

	events, err := h.st.Events(after, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

// Membership probe on the processed set: /processed?source_tx=0x...
func (h *HttpReporter) Processed(c *gin.Context) {
	sourceTx := c.Query("source_tx")
	if sourceTx == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_tx must be provided"})
		return
	}

	hash := ethcommon.Hash(common.HexStrToBytes32(sourceTx))
	processed, err := h.st.HasProcessed(hash)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source_tx": hash.String(),
		"processed": processed,
	})
}

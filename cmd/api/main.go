package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deedchain/registry/agreement"
	"github.com/deedchain/registry/common"
	"github.com/deedchain/registry/docstore"
	"github.com/deedchain/registry/identity"
	"github.com/deedchain/registry/property"
	"github.com/deedchain/registry/registry"
)

const runloopSleepInterval = 250 * time.Millisecond
const sessionDialTimeout = 30 * time.Second
const shutdownGracePeriod = 10 * time.Second

var (
	cancelF     context.CancelFunc
	shutdownCtx context.Context
	sigs        chan os.Signal

	srv *http.Server
)

func main() {
	common.Log.Debugf("starting deed registry gateway")
	installSignalHandlers()

	dialCtx, cancel := context.WithTimeout(context.Background(), sessionDialTimeout)
	defer cancel()

	session, err := registry.DialSession(dialCtx)
	if err != nil {
		common.Log.Panicf("failed to dial registry session; %s", err.Error())
	}

	client, err := registry.NewClient(session)
	if err != nil {
		common.Log.Panicf("failed to initialize registry client; %s", err.Error())
	}

	documents, err := docstore.InitDocStoreProvider(docstore.DocStoreProviderIPFS)
	if err != nil {
		common.Log.Panicf("failed to initialize document storage; %s", err.Error())
	}

	resolver := identity.NewResolver(client)

	serveAPI(client, resolver, documents)

	timer := time.NewTicker(runloopSleepInterval)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			// tick
		case sig := <-sigs:
			common.Log.Debugf("received signal: %s", sig)
			shutdown()
		case <-shutdownCtx.Done():
			common.Log.Debug("shutting down deed registry gateway")
			stopAPI()
			return
		}
	}
}

func serveAPI(client *registry.Client, resolver *identity.Resolver, documents docstore.Provider) {
	r := gin.New()
	r.Use(gin.Recovery())

	identity.InstallIdentityAPI(r, client)
	property.InstallPropertiesAPI(r, property.NewMirror(client, resolver), client, documents)
	agreement.InstallAgreementsAPI(r, agreement.NewMirror(client, resolver), client, documents)

	r.GET("/status", statusHandler)

	srv = &http.Server{
		Addr:    fmt.Sprintf(":%s", common.ListenPort),
		Handler: r,
	}

	go func() {
		common.Log.Infof("api listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.Log.Panicf("api server failed; %s", err.Error())
		}
	}()
}

func stopAPI() {
	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.Log.Warningf("api server shutdown failed; %s", err.Error())
	}
}

func statusHandler(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

func installSignalHandlers() {
	common.Log.Debug("installing signal handlers")
	sigs = make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	shutdownCtx, cancelF = context.WithCancel(context.Background())
}

func shutdown() {
	if cancelF != nil {
		cancelF()
	}
}

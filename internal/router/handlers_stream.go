package router

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/threadline/marketplace-api/pkg/market"
)

// SSE endpoints backing the live cart and order views. Each stream opens
// with a "snapshot" event carrying the current state, then emits one event
// per change until the client disconnects.

func StreamCart(c *gin.Context) {
	sub, err := service.WatchCart(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer sub.Cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.SSEvent("snapshot", sub.Initial)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-sub.Updates
		if !ok {
			return false
		}
		c.SSEvent(string(ev.Type), ev.Item)
		return true
	})
}

func StreamBuyerOrders(c *gin.Context) {
	sub, err := service.WatchBuyerOrders(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	streamOrders(c, sub)
}

func StreamSellerOrders(c *gin.Context) {
	sub, err := service.WatchSellerOrders(c.Request.Context(), currentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	streamOrders(c, sub)
}

func streamOrders(c *gin.Context, sub *market.OrderSubscription) {
	defer sub.Cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.SSEvent("snapshot", sub.Initial)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-sub.Updates
		if !ok {
			return false
		}
		c.SSEvent(string(ev.Type), ev.Order)
		return true
	})
}

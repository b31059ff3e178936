package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	orderbookv1 "github.com/Praneshrajan137/matching-engine-sub002/internal/domain/orderbook/v1"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"
)

// generateOrders creates a batch of random submissions around a base price.
// The mix leans on limit orders so the book actually builds up; market, IOC
// and FOK orders then trade against it.
func generateOrders(count int, symbol string, basePrice, priceSpread float64) []orderbookv1.PlaceOrderRequest {
	orders := make([]orderbookv1.PlaceOrderRequest, count)

	for i := 0; i < count; i++ {
		orderType := orderbookv1.OrderTypeLimit
		switch roll := rand.Float64(); {
		case roll < 0.15:
			orderType = orderbookv1.OrderTypeMarket
		case roll < 0.25:
			orderType = orderbookv1.OrderTypeIOC
		case roll < 0.30:
			orderType = orderbookv1.OrderTypeFOK
		}

		side := orderbookv1.SideSell
		if rand.Float64() < 0.5 {
			side = orderbookv1.SideBuy
		}

		quantity := 0.01 + rand.Float64()*9.99
		quantity = float64(int(quantity*1000)) / 1000

		var price float64
		if orderType != orderbookv1.OrderTypeMarket {
			if side == orderbookv1.SideBuy {
				price = basePrice - rand.Float64()*priceSpread*0.8
			} else {
				price = basePrice + rand.Float64()*priceSpread*0.8
			}
			price = float64(int(price*10)) / 10
			if price <= 0 {
				price = basePrice
			}
		}

		orders[i] = orderbookv1.PlaceOrderRequest{
			OrderID:  ulid.Make().String(),
			Symbol:   symbol,
			Type:     orderType,
			Side:     side,
			Quantity: quantity,
			Price:    price,
		}
	}

	return orders
}

func main() {
	var (
		brokers     = flag.String("brokers", "localhost:9092", "Kafka broker addresses (comma-separated)")
		topic       = flag.String("topic", "orders", "Kafka topic name")
		symbol      = flag.String("symbol", "BTC-USD", "Trading symbol")
		file        = flag.String("file", "", "JSON file with orders (optional, generates orders if not provided)")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between sending orders")
		count       = flag.Int("count", 1000, "Number of orders to generate")
		basePrice   = flag.Float64("base-price", 3945.5, "Base price for orders")
		priceSpread = flag.Float64("price-spread", 200.0, "Price spread range")
	)
	flag.Parse()

	writer := &kafka.Writer{
		Addr:         kafka.TCP(*brokers),
		Topic:        *topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	defer writer.Close()

	ctx := context.Background()

	var orders []orderbookv1.PlaceOrderRequest
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read file %s: %v", *file, err)
		}
		if err := json.Unmarshal(data, &orders); err != nil {
			log.Fatalf("Failed to parse JSON from file: %v", err)
		}
		log.Printf("Loaded %d orders from file: %s", len(orders), *file)
	} else {
		log.Printf("Generating %d orders...", *count)
		orders = generateOrders(*count, *symbol, *basePrice, *priceSpread)
	}

	log.Printf("Sending orders to Kafka broker: %s, topic: %s", *brokers, *topic)

	sent := 0
	for i, order := range orders {
		if err := order.Validate(); err != nil {
			log.Printf("Skipping invalid order %d (%s): %v", i+1, order.OrderID, err)
			continue
		}

		value, err := json.Marshal(order)
		if err != nil {
			log.Printf("Failed to marshal order %d: %v", i+1, err)
			continue
		}

		msg := kafka.Message{
			Key:   []byte(order.Symbol),
			Value: value,
			Time:  time.Now(),
		}

		if err := writer.WriteMessages(ctx, msg); err != nil {
			log.Printf("Failed to send order %d (%s): %v", i+1, order.OrderID, err)
			continue
		}
		sent++

		if sent%100 == 0 || i == len(orders)-1 {
			log.Printf("Sent order %d/%d: %s | %s %s | qty %.3f @ %.1f",
				i+1, len(orders), order.OrderID, order.Type, order.Side, order.Quantity, order.Price)
		}

		if i < len(orders)-1 {
			time.Sleep(*delay)
		}
	}

	log.Printf("Done, sent %d/%d orders", sent, len(orders))
}

// Package pharmacyv1 содержит контракт gRPC-сервиса pharmacy.v1.OrderService:
// сгенерированные protobuf-сообщения, клиент и сервер, а также перевод доменных моделей в сообщения.
package pharmacyv1

//go:generate protoc -I ../../.. --go_out=../../.. --go_opt=paths=source_relative --go-grpc_out=../../.. --go-grpc_opt=paths=source_relative proto/pharmacy/v1/order_service.proto

// ServiceName: полное имя сервиса, под которым он регистрируется в gRPC health.
const ServiceName = "pharmacy.v1.OrderService"

package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName は同期サービスの完全修飾名です。
const ServiceName = "hrsync.v1.EmployeeSyncService"

// EmployeeSyncServer は EmployeeSyncService のサーバー実装が満たすインターフェースです。
// リクエスト・レスポンスはすべて google.protobuf.Struct で表現します。
type EmployeeSyncServer interface {
	CreateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteDepartment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListDepartments(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreatePosition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdatePosition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeletePosition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPositions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(EmployeeSyncServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var unaryMethods = []struct {
	name string
	call unaryCall
}{
	{"CreateEmployee", EmployeeSyncServer.CreateEmployee},
	{"GetEmployee", EmployeeSyncServer.GetEmployee},
	{"UpdateEmployee", EmployeeSyncServer.UpdateEmployee},
	{"DeleteEmployee", EmployeeSyncServer.DeleteEmployee},
	{"CreateDepartment", EmployeeSyncServer.CreateDepartment},
	{"UpdateDepartment", EmployeeSyncServer.UpdateDepartment},
	{"DeleteDepartment", EmployeeSyncServer.DeleteDepartment},
	{"ListDepartments", EmployeeSyncServer.ListDepartments},
	{"CreatePosition", EmployeeSyncServer.CreatePosition},
	{"UpdatePosition", EmployeeSyncServer.UpdatePosition},
	{"DeletePosition", EmployeeSyncServer.DeletePosition},
	{"ListPositions", EmployeeSyncServer.ListPositions},
}

// EmployeeSyncServiceDesc は EmployeeSyncService の grpc.ServiceDesc です。
var EmployeeSyncServiceDesc = newServiceDesc()

func newServiceDesc() grpc.ServiceDesc {
	methods := make([]grpc.MethodDesc, 0, len(unaryMethods))
	for _, m := range unaryMethods {
		methods = append(methods, grpc.MethodDesc{
			MethodName: m.name,
			Handler:    unaryHandler(m.name, m.call),
		})
	}
	return grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*EmployeeSyncServer)(nil),
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
		Metadata:    "hrsync/v1/employee_sync.proto",
	}
}

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EmployeeSyncServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(EmployeeSyncServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegisterEmployeeSyncServer は srv を s に登録します。
func RegisterEmployeeSyncServer(s grpc.ServiceRegistrar, srv EmployeeSyncServer) {
	s.RegisterService(&EmployeeSyncServiceDesc, srv)
}

// EmployeeSyncClient は EmployeeSyncService の最小限のクライアントです。
type EmployeeSyncClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeSyncClient は EmployeeSyncClient を生成します。
func NewEmployeeSyncClient(cc grpc.ClientConnInterface) *EmployeeSyncClient {
	return &EmployeeSyncClient{cc: cc}
}

// Call は method を呼び出します。method は "CreateEmployee" のようなメソッド名です。
func (c *EmployeeSyncClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

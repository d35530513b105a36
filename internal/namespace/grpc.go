package namespace

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/jexlang/jexl/internal/values"
)

// grpcFuncs is the `grpc:` namespace (SPEC_FULL.md §B), grounded on funxy's
// builtins_grpc.go: a descriptor registry populated from .proto sources,
// dynamic message construction against a method's input descriptor, and
// protoreflect-driven unary invocation — reworked to marshal to/from
// values.Value rather than funxy's own Object/RecordInstance types.
func grpcFuncs() map[string]Func {
	reg := newProtoRegistry()
	return map[string]Func{
		"loadProto": reg.loadProto,
		"connect":   grpcConnect,
		"invoke":    reg.invoke,
		"close":     grpcClose,
	}
}

// protoRegistry holds every service/message descriptor loaded via
// grpc:loadProto, keyed by the fully-qualified service name, mirroring
// funxy's mutex-guarded package-level protoRegistry map.
type protoRegistry struct {
	mu       sync.Mutex
	services map[string]*desc.ServiceDescriptor
}

func newProtoRegistry() *protoRegistry {
	return &protoRegistry{services: make(map[string]*desc.ServiceDescriptor)}
}

func (r *protoRegistry) loadProto(args []values.Value) (values.Value, error) {
	path := values.ToGoString(arg(args, 0))
	parser := protoparse.Parser{ImportPaths: []string{filepath.Dir(path)}}
	fds, err := parser.ParseFiles(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("grpc:loadProto: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	names := values.NewSet()
	for _, fd := range fds {
		for _, svc := range fd.GetServices() {
			r.services[svc.GetFullyQualifiedName()] = svc
			names.Add(values.Str(svc.GetFullyQualifiedName()))
		}
	}
	return names, nil
}

func (r *protoRegistry) findMethod(qualifiedMethod string) (*desc.MethodDescriptor, error) {
	idx := strings.LastIndex(qualifiedMethod, "/")
	if idx < 0 {
		idx = strings.LastIndex(qualifiedMethod, ".")
	}
	if idx < 0 {
		return nil, fmt.Errorf("grpc:invoke: malformed method %q, want Service/Method", qualifiedMethod)
	}
	svcName, methodName := qualifiedMethod[:idx], qualifiedMethod[idx+1:]

	r.mu.Lock()
	svc, ok := r.services[svcName]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("grpc:invoke: service %q not loaded", svcName)
	}
	md := svc.FindMethodByName(methodName)
	if md == nil {
		return nil, fmt.Errorf("grpc:invoke: method %q not found on %q", methodName, svcName)
	}
	return md, nil
}

// grpcConn wraps a *grpc.ClientConn as the host handle returned to script
// code by grpc:connect (spec.md §3 "Object(opaque host handle)").
type grpcConn struct {
	conn *grpc.ClientConn
}

func grpcConnect(args []values.Value) (values.Value, error) {
	target := values.ToGoString(arg(args, 0))
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc:connect: %w", err)
	}
	return values.Object{Native: &grpcConn{conn: conn}}, nil
}

func grpcClose(args []values.Value) (values.Value, error) {
	obj, ok := arg(args, 0).(values.Object)
	if !ok {
		return nil, fmt.Errorf("grpc:close: argument is not a grpc connection")
	}
	c, ok := obj.Native.(*grpcConn)
	if !ok {
		return nil, fmt.Errorf("grpc:close: argument is not a grpc connection")
	}
	if err := c.conn.Close(); err != nil {
		return nil, fmt.Errorf("grpc:close: %w", err)
	}
	return values.NULL, nil
}

// invoke performs a dynamic unary RPC: grpc:invoke(conn, "pkg.Service/Method", reqMap).
func (r *protoRegistry) invoke(args []values.Value) (values.Value, error) {
	obj, ok := arg(args, 0).(values.Object)
	if !ok {
		return nil, fmt.Errorf("grpc:invoke: first argument must be a grpc connection")
	}
	c, ok := obj.Native.(*grpcConn)
	if !ok {
		return nil, fmt.Errorf("grpc:invoke: first argument must be a grpc connection")
	}
	methodPath := values.ToGoString(arg(args, 1))
	md, err := r.findMethod(methodPath)
	if err != nil {
		return nil, err
	}

	reqMsg := dynamic.NewMessage(md.GetInputType())
	if err := valueToDynamicMessage(arg(args, 2), reqMsg); err != nil {
		return nil, fmt.Errorf("grpc:invoke: %w", err)
	}
	respMsg := dynamic.NewMessage(md.GetOutputType())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	fullMethod := "/" + md.GetService().GetFullyQualifiedName() + "/" + md.GetName()
	if err := c.conn.Invoke(ctx, fullMethod, reqMsg, respMsg); err != nil {
		return nil, fmt.Errorf("grpc:invoke: %w", err)
	}
	return values.Object{Native: &ProtoMessage{msg: respMsg}}, nil
}

// ProtoMessage adapts a dynamic protobuf message as a host object whose
// fields resolve through protoreflect descriptors (internal/uberspect's
// PropertyByName hook) instead of Go struct-field reflection — a response
// message has no static Go struct behind it at all.
type ProtoMessage struct{ msg *dynamic.Message }

func (p *ProtoMessage) JexlProperty(name string) (values.Value, bool) {
	fd := p.msg.GetMessageDescriptor().FindFieldByName(name)
	if fd == nil {
		return nil, false
	}
	return protoFieldToValue(p.msg.GetField(fd), fd), true
}

// valueToDynamicMessage populates msg's fields from a Map value, converting
// each field according to its descriptor type.
func valueToDynamicMessage(v values.Value, msg *dynamic.Message) error {
	m, ok := v.(*values.Map)
	if !ok {
		if _, isNull := v.(values.Null); isNull {
			return nil
		}
		return fmt.Errorf("request value must be a map")
	}
	for _, k := range m.Keys() {
		name := values.ToGoString(k)
		fd := msg.GetMessageDescriptor().FindFieldByName(name)
		if fd == nil {
			continue
		}
		fieldVal, _ := m.Get(k)
		goVal, err := valueToProtoField(fieldVal, fd)
		if err != nil {
			return err
		}
		if err := msg.TrySetField(fd, goVal); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

func valueToProtoField(v values.Value, fd *desc.FieldDescriptor) (interface{}, error) {
	if fd.IsRepeated() {
		elems, _ := values.ToArray(v)
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			gv, err := scalarProtoValue(e, fd)
			if err != nil {
				return nil, err
			}
			out[i] = gv
		}
		return out, nil
	}
	return scalarProtoValue(v, fd)
}

func scalarProtoValue(v values.Value, fd *desc.FieldDescriptor) (interface{}, error) {
	if fd.GetMessageType() != nil {
		nested := dynamic.NewMessage(fd.GetMessageType())
		if err := valueToDynamicMessage(v, nested); err != nil {
			return nil, err
		}
		return nested, nil
	}
	switch fd.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return values.ToGoString(v), nil
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return values.ToBoolean(v), nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		f, err := values.ToDouble(v, false)
		return f, err
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return []byte(values.ToGoString(v)), nil
	default:
		n, err := values.ToInteger(v, false)
		return n, err
	}
}

// dynamicMessageToValue lowers a response message into a Map, the inverse
// of valueToDynamicMessage.
func dynamicMessageToValue(msg *dynamic.Message) values.Value {
	m := values.NewMap()
	for _, fd := range msg.GetKnownFields() {
		raw := msg.GetField(fd)
		m.Set(values.Str(fd.GetName()), protoFieldToValue(raw, fd))
	}
	return m
}

func protoFieldToValue(raw interface{}, fd *desc.FieldDescriptor) values.Value {
	if fd.IsRepeated() {
		if slice, ok := raw.([]interface{}); ok {
			elems := make([]values.Value, len(slice))
			for i, e := range slice {
				elems[i] = scalarFromProto(e, fd)
			}
			return values.Array{Elems: elems}
		}
	}
	return scalarFromProto(raw, fd)
}

func scalarFromProto(raw interface{}, fd *desc.FieldDescriptor) values.Value {
	if nested, ok := raw.(*dynamic.Message); ok {
		return dynamicMessageToValue(nested)
	}
	switch x := raw.(type) {
	case string:
		return values.Str(x)
	case bool:
		return values.Bool(x)
	case float32:
		return values.Float64(x)
	case float64:
		return values.Float64(x)
	case []byte:
		return values.Str(string(x))
	case int32:
		return values.Int64(x)
	case int64:
		return values.Int64(x)
	case uint32:
		return values.Int64(x)
	case uint64:
		return values.Int64(x)
	}
	return values.NULL
}

package graph

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"strings"

	"shopco-storefront/internal/graph/model"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

//go:embed schema.graphqls
var sourceSchema string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: sourceSchema})

type fieldFunc func(ctx context.Context, args map[string]any) (any, error)

// executableSchema runs operations against the resolvers. Field values are
// projected from the resolver results by their JSON names, which the schema
// mirrors.
type executableSchema struct {
	// Complexity is not served; no complexity limit is installed.
	graphql.ExecutableSchema

	schema     *ast.Schema
	directives Directives
	query      map[string]fieldFunc
	mutation   map[string]fieldFunc
}

func newExecutableSchema(r *Resolver, d Directives) *executableSchema {
	q, m := r.Query(), r.Mutation()
	return &executableSchema{
		schema:     parsedSchema,
		directives: d,
		query: map[string]fieldFunc{
			"products": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					Filter *model.ShopFilter `json:"filter"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return q.Products(ctx, a.Filter)
			},
			"product": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					ID string `json:"id"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return q.Product(ctx, a.ID)
			},
			"cart": func(ctx context.Context, _ map[string]any) (any, error) {
				return q.Cart(ctx)
			},
			"wishlist": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					Sort *string `json:"sort"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return q.Wishlist(ctx, a.Sort)
			},
			"orders": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					Filter *string `json:"filter"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return q.Orders(ctx, a.Filter)
			},
			"order": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					ID string `json:"id"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return q.Order(ctx, a.ID)
			},
			"checkout": func(ctx context.Context, _ map[string]any) (any, error) {
				return q.Checkout(ctx)
			},
		},
		mutation: map[string]fieldFunc{
			"addToCart": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					Input model.AddToCartInput `json:"input"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return m.AddToCart(ctx, a.Input)
			},
			"updateCartItem": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					Input model.UpdateCartItemInput `json:"input"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return m.UpdateCartItem(ctx, a.Input)
			},
			"removeFromCart": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					ProductID string  `json:"productId"`
					Size      *string `json:"size"`
					Color     *string `json:"color"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return m.RemoveFromCart(ctx, a.ProductID, a.Size, a.Color)
			},
			"clearCart": func(ctx context.Context, _ map[string]any) (any, error) {
				return m.ClearCart(ctx)
			},
			"applyPromo": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					Code string `json:"code"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return m.ApplyPromo(ctx, a.Code)
			},
			"removePromo": func(ctx context.Context, _ map[string]any) (any, error) {
				return m.RemovePromo(ctx)
			},
			"toggleWishlist": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					ProductID string `json:"productId"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return m.ToggleWishlist(ctx, a.ProductID)
			},
			"moveToCart": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					ProductID string `json:"productId"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return m.MoveToCart(ctx, a.ProductID)
			},
			"setShipping": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					Input model.ShippingInput `json:"input"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return m.SetShipping(ctx, a.Input)
			},
			"nextStep": func(ctx context.Context, _ map[string]any) (any, error) {
				return m.NextStep(ctx)
			},
			"previousStep": func(ctx context.Context, _ map[string]any) (any, error) {
				return m.PreviousStep(ctx)
			},
			"goToStep": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					Step int `json:"step"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return m.GoToStep(ctx, a.Step)
			},
			"selectPaymentMethod": func(ctx context.Context, args map[string]any) (any, error) {
				var a struct {
					Method string `json:"method"`
				}
				if err := bind(args, &a); err != nil {
					return nil, err
				}
				return m.SelectPaymentMethod(ctx, a.Method)
			},
			"placeOrder": func(ctx context.Context, _ map[string]any) (any, error) {
				return m.PlaceOrder(ctx)
			},
		},
	}
}

func (e *executableSchema) Schema() *ast.Schema {
	return e.schema
}

// Exec resolves the root fields in document order. Mutations run one after
// another as they must; queries do too.
func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	oc := graphql.GetOperationContext(ctx)

	var (
		root   *ast.Definition
		fields map[string]fieldFunc
	)
	switch oc.Operation.Operation {
	case ast.Query:
		root, fields = e.schema.Query, e.query
	case ast.Mutation:
		root, fields = e.schema.Mutation, e.mutation
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}

	var (
		data object
		errs gqlerror.List
	)
	for _, f := range graphql.CollectFields(oc, oc.Operation.SelectionSet, []string{root.Name}) {
		path := ast.Path{ast.PathName(f.Alias)}
		if f.Name == "__typename" {
			data = append(data, member{key: f.Alias, value: root.Name})
			continue
		}

		value, err := e.resolveRoot(ctx, oc, root, fields, f, path)
		if err != nil {
			errs = append(errs, withPath(err, path))
			data = append(data, member{key: f.Alias})
			continue
		}
		data = append(data, member{key: f.Alias, value: value})
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "failed to encode response"))
	}
	return graphql.OneShot(&graphql.Response{Data: raw, Errors: errs})
}

func (e *executableSchema) resolveRoot(
	ctx context.Context,
	oc *graphql.OperationContext,
	root *ast.Definition,
	fields map[string]fieldFunc,
	f graphql.CollectedField,
	path ast.Path,
) (any, error) {
	if strings.HasPrefix(f.Name, "__") {
		return nil, errors.New("introspection is disabled")
	}
	def := root.Fields.ForName(f.Name)
	fn, ok := fields[f.Name]
	if def == nil || !ok {
		return nil, gqlerror.Errorf("field %s is not served", f.Name)
	}

	args := f.ArgumentMap(oc.Variables)
	next := func(ctx context.Context) (any, error) {
		return fn(ctx, args)
	}
	var (
		res any
		err error
	)
	if def.Directives.ForName("auth") != nil {
		res, err = e.directives.Auth(ctx, nil, next)
	} else {
		res, err = next(ctx)
	}
	if err != nil {
		return nil, err
	}

	value, err := normalize(res)
	if err != nil {
		return nil, err
	}
	return e.complete(oc, def.Type, value, f.Selections, path)
}

// complete keeps the selected fields of value, typed by t, under their aliases.
func (e *executableSchema) complete(oc *graphql.OperationContext, t *ast.Type, value any, sel ast.SelectionSet, path ast.Path) (any, error) {
	if value == nil {
		if t.NonNull {
			return nil, gqlerror.ErrorPathf(path, "must not be null")
		}
		return nil, nil
	}

	if t.Elem != nil {
		list, ok := value.([]any)
		if !ok {
			return nil, gqlerror.ErrorPathf(path, "expected a list")
		}
		out := make([]any, len(list))
		for i, v := range list {
			c, err := e.complete(oc, t.Elem, v, sel, extend(path, ast.PathIndex(i)))
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}

	def := e.schema.Types[t.NamedType]
	if def == nil || def.Kind != ast.Object {
		return value, nil
	}
	fields, ok := value.(map[string]any)
	if !ok {
		return nil, gqlerror.ErrorPathf(path, "expected an object")
	}

	var obj object
	for _, f := range graphql.CollectFields(oc, sel, []string{def.Name}) {
		if f.Name == "__typename" {
			obj = append(obj, member{key: f.Alias, value: def.Name})
			continue
		}
		fd := def.Fields.ForName(f.Name)
		if fd == nil {
			continue
		}
		c, err := e.complete(oc, fd.Type, fields[f.Name], f.Selections, extend(path, ast.PathName(f.Alias)))
		if err != nil {
			return nil, err
		}
		obj = append(obj, member{key: f.Alias, value: c})
	}
	return obj, nil
}

// bind decodes field arguments into the resolver's parameter struct.
func bind(args map[string]any, dst any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return badInput("invalid arguments")
	}
	return nil
}

// normalize turns a resolver result into the generic shape of its JSON form.
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func extend(path ast.Path, el ast.PathElement) ast.Path {
	out := make(ast.Path, 0, len(path)+1)
	return append(append(out, path...), el)
}

// withPath attaches path to err without touching shared error values.
func withPath(err error, path ast.Path) *gqlerror.Error {
	var gerr *gqlerror.Error
	if !errors.As(err, &gerr) {
		return gqlerror.WrapPath(path, err)
	}
	out := *gerr
	if len(out.Path) == 0 {
		out.Path = path
	}
	return &out
}

type member struct {
	key   string
	value any
}

// object is a JSON object that keeps the order fields were selected in.
type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

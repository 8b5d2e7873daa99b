package framecheck

// Package framecheck validates tabular data against declarative schemas:
//
// - Schema value objects (SeriesSchema, Column, Index, DataFrameSchema) describing
//   expected names, dtypes, nullability, uniqueness and declared checks
// - A stable error model via SchemaError/SchemaErrors (reason code, message,
//   failure cases) with eager and lazy reporting modes
// - Optional dtype coercion with all-or-nothing visibility, applied once and
//   strictly before any check
// - Deterministic row subsampling (head/tail/seeded sample) shared by every
//   check in a call
//
// Design policy:
// - Keep only public APIs in the root package; put rendering under internal/.
// - Place the type engine under dtype/, schema documents under schemaio/, and
//   the CLI under cmd/framecheck.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	schema := framecheck.NewDataFrameSchema([]*framecheck.Column{
//		framecheck.NewColumn("price", dtype.Float64, framecheck.Coerce(), framecheck.Checks(framecheck.Ge(0))),
//	})
//	out, err := schema.Validate(ctx, df, framecheck.Options{Lazy: true})
//	if agg, ok := framecheck.AsSchemaErrors(err); ok {
//		// every violation, in execution order
//	}

package dxup

import (
	"github.com/gogpu/gputypes"

	"github.com/simulasi2/dxup/gfx"
)

// This file converts legacy render-state scalar values to the gfx
// package's backend-agnostic descriptor enums, the boundary §4.3's
// state-object cache sits behind.

func legacyToGfxFillMode(f FillMode) gfx.FillMode {
	switch f {
	case FillWireframe:
		return gfx.FillModeWireframe
	case FillPoint:
		return gfx.FillModePoint
	default:
		return gfx.FillModeSolid
	}
}

func legacyToGfxCullMode(c CullMode) gputypes.CullMode {
	switch c {
	case CullCW:
		return gputypes.CullModeFront
	case CullCCW:
		return gputypes.CullModeBack
	default:
		return gputypes.CullModeNone
	}
}

func legacyToGfxBlendFactor(b Blend) gputypes.BlendFactor {
	switch b {
	case BlendZero:
		return gputypes.BlendFactorZero
	case BlendOne:
		return gputypes.BlendFactorOne
	case BlendSrcColor:
		return gputypes.BlendFactorSrc
	case BlendInvSrcColor:
		return gputypes.BlendFactorOneMinusSrc
	case BlendSrcAlpha:
		return gputypes.BlendFactorSrcAlpha
	case BlendInvSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	case BlendDestAlpha:
		return gputypes.BlendFactorDstAlpha
	case BlendInvDestAlpha:
		return gputypes.BlendFactorOneMinusDstAlpha
	case BlendDestColor:
		return gputypes.BlendFactorDst
	case BlendInvDestColor:
		return gputypes.BlendFactorOneMinusDst
	case BlendSrcAlphaSat:
		return gputypes.BlendFactorSrcAlphaSaturated
	case BlendBlendFactor:
		return gputypes.BlendFactorConstant
	case BlendInvBlendFactor:
		return gputypes.BlendFactorOneMinusConstant
	default:
		return gputypes.BlendFactorOne
	}
}

func legacyToGfxBlendOp(op BlendOp) gputypes.BlendOperation {
	switch op {
	case BlendOpSubtract:
		return gputypes.BlendOperationSubtract
	case BlendOpRevSubtract:
		return gputypes.BlendOperationReverseSubtract
	case BlendOpMin:
		return gputypes.BlendOperationMin
	case BlendOpMax:
		return gputypes.BlendOperationMax
	default:
		return gputypes.BlendOperationAdd
	}
}

func legacyToGfxCompare(c CompareFunc) gputypes.CompareFunction {
	switch c {
	case CmpNever:
		return gputypes.CompareFunctionNever
	case CmpLess:
		return gputypes.CompareFunctionLess
	case CmpEqual:
		return gputypes.CompareFunctionEqual
	case CmpLessEqual:
		return gputypes.CompareFunctionLessEqual
	case CmpGreater:
		return gputypes.CompareFunctionGreater
	case CmpNotEqual:
		return gputypes.CompareFunctionNotEqual
	case CmpGreaterEqual:
		return gputypes.CompareFunctionGreaterEqual
	default:
		return gputypes.CompareFunctionAlways
	}
}

func legacyToGfxStencilOp(op StencilOperation) gfx.StencilOperation {
	switch op {
	case StencilOpZero:
		return gfx.StencilOperationZero
	case StencilOpReplace:
		return gfx.StencilOperationReplace
	case StencilOpIncrSat:
		return gfx.StencilOperationIncrementClamp
	case StencilOpDecrSat:
		return gfx.StencilOperationDecrementClamp
	case StencilOpInvert:
		return gfx.StencilOperationInvert
	case StencilOpIncr:
		return gfx.StencilOperationIncrementWrap
	case StencilOpDecr:
		return gfx.StencilOperationDecrementWrap
	default:
		return gfx.StencilOperationKeep
	}
}

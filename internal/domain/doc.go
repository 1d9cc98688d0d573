// Package domain contains the core business entities, value objects, and
// domain logic of the customizer: the feature catalog, the pricing engine,
// the forbidden-combination registry, and the custom item entity. It
// represents the heart of the system, independent of any specific
// infrastructure or delivery mechanism.
package domain
